package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

// TestSuccess_Envelope checks the {"code":0,"data":...} shape
func TestSuccess_Envelope(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Success(c, Response{"total": "25"})
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Code int               `json:"code"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != CodeOK || body.Data["total"] != "25" {
		t.Errorf("body = %+v", body)
	}
}

// TestError_Envelope checks status and business code pass through
func TestError_Envelope(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, http.StatusNotFound, CodeNotFound, "order x: record not found")
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != float64(CodeNotFound) || body["message"] != "order x: record not found" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Errorf("error body carries data: %v", body)
	}
}

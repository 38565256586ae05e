package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"flour-ledger/internal/service"
	"flour-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

var errBadQuery = errors.New("bad query parameter")

// fail maps service errors onto the response envelope. Unexpected errors are
// attached to the context for the request logger and hidden from the client.
func fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
		return
	}
	_ = c.Error(err)
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
}

func badRequest(c *gin.Context, msg string) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, key string) (*int, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, errBadQuery
	}
	return &v, nil
}

// queryInts reads several optional integer parameters, stopping at the first
// malformed one.
func queryInts(c *gin.Context, keys ...string) ([]*int, bool) {
	out := make([]*int, len(keys))
	for i, k := range keys {
		v, err := queryInt(c, k)
		if err != nil {
			badRequest(c, k+" must be an integer")
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// pageParams reads ?cursor= (RFC 3339) and ?limit=.
func pageParams(c *gin.Context, defaultLimit int) (*time.Time, int, bool) {
	var cursor *time.Time
	if s := c.Query("cursor"); s != "" {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			badRequest(c, "cursor must be an RFC 3339 timestamp")
			return nil, 0, false
		}
		cursor = &t
	}

	limit := defaultLimit
	l, err := queryInt(c, "limit")
	if err != nil || (l != nil && (*l <= 0 || *l > 100)) {
		badRequest(c, "limit must be between 1 and 100")
		return nil, 0, false
	}
	if l != nil {
		limit = *l
	}
	return cursor, limit, true
}

// requireYearMonth reads the mandatory ?year= and ?month= pair.
func requireYearMonth(c *gin.Context) (year, month int, ok bool) {
	vals, ok := queryInts(c, "year", "month")
	if !ok {
		return 0, 0, false
	}
	if vals[0] == nil || vals[1] == nil {
		badRequest(c, "year and month are required")
		return 0, 0, false
	}
	return *vals[0], *vals[1], true
}

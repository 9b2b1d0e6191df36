// Package stream writes sync outcome sequences to HTTP clients as newline-delimited JSON.
package stream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/shared/outcome"
)

// ContentType is the media type of an outcome stream.
const ContentType = "application/x-ndjson"

// Frame is one line of an outcome stream.
//
//	{"status":"loading","loading":true}
//	{"status":"success","data":[...]}
//	{"status":"error","message":"Couldn't load data","data":[...]}
type Frame[D any] struct {
	Status  string `json:"status"`
	Loading *bool  `json:"loading,omitempty"`
	Message string `json:"message,omitempty"`
	Data    *D     `json:"data,omitempty"`
}

// NewFrame converts o, mapping its payload with conv.
func NewFrame[T, D any](o outcome.Outcome[T], conv func(T) D) Frame[D] {
	f := Frame[D]{Status: o.Status.String(), Message: o.Message}
	if o.IsLoading() {
		loading := o.Loading
		f.Loading = &loading
	}
	if o.HasData {
		d := conv(o.Data)
		f.Data = &d
	}
	return f
}

// Write streams every outcome of ch as one frame per line and flushes after each one.
// It returns when ch is closed or the client can no longer be written to; in the latter
// case the rest of ch is drained in the background.
func Write[T, D any](c *gin.Context, ch <-chan outcome.Outcome[T], conv func(T) D) error {
	c.Header("Content-Type", ContentType)
	c.Header("Cache-Control", "no-store")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	for o := range ch {
		if err := enc.Encode(NewFrame(o, conv)); err != nil {
			go drain(ch)
			return fmt.Errorf("write frame: %w", err)
		}
		c.Writer.Flush()
	}
	return nil
}

func drain[T any](ch <-chan T) {
	for range ch {
	}
}

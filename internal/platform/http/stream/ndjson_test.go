package stream

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/shared/outcome"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func feed(seq ...outcome.Outcome[[]int]) <-chan outcome.Outcome[[]int] {
	ch := make(chan outcome.Outcome[[]int], len(seq))
	for _, o := range seq {
		ch <- o
	}
	close(ch)
	return ch
}

func double(xs []int) []int {
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		out = append(out, 2*x)
	}
	return out
}

// TestWrite は各出力が1行ずつ順番に書き出されることを検証します。
func TestWrite(t *testing.T) {
	t.Parallel()

	stale := []int{1}
	ch := feed(
		outcome.Loading[[]int](true),
		outcome.Success([]int{1}),
		outcome.Error("Couldn't load data", &stale),
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, Write(c, ch, double))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType, w.Header().Get("Content-Type"))

	sc := bufio.NewScanner(strings.NewReader(w.Body.String()))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	assert.Equal(t, []string{
		`{"status":"loading","loading":true}`,
		`{"status":"success","data":[2]}`,
		`{"status":"error","message":"Couldn't load data","data":[2]}`,
	}, lines)
}

// TestNewFrame は読み込み完了と空データの表現を検証します。
func TestNewFrame(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewFrame(outcome.Loading[[]int](false), double))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"loading","loading":false}`, string(b))

	b, err = json.Marshal(NewFrame(outcome.Success([]int{}), double))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":[]}`, string(b))

	b, err = json.Marshal(NewFrame(outcome.Error[[]int]("Data not available", nil), double))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Data not available"}`, string(b))
}

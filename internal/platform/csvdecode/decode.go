// Package csvdecode はリモートAPIが返すCSVをドメインのレコードへ変換します。
//
// ヘッダ行は無条件に読み飛ばします。不正な行はログに残して捨て、処理を続けます。
// ストリーム自体の読み込みに失敗した場合は空のスライスを返します（途中までの結果は返しません）。
package csvdecode

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
)

// ErrRow は1行分のデコードに失敗したことを表します。
var ErrRow = errors.New("invalid csv row")

// RowFunc は1行分のフィールドをレコードへ変換します。
// 失敗した場合は ErrRow をラップしたエラーを返します。
type RowFunc[T any] func(record []string) (T, error)

// Decode は r を最後まで読み、行ごとに row を適用した結果を返します。
// r はどの経路でも必ず Close されます。
func Decode[T any](r io.ReadCloser, row RowFunc[T]) []T {
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("failed to close csv stream", "error", err)
		}
	}()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // 列数の検証は RowFunc 側で行う
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		slog.Error("failed to read csv stream", "error", err)
		return []T{}
	}

	out := make([]T, 0, max(len(records)-1, 0))
	skipped := 0
	for i, rec := range records {
		if i == 0 {
			continue // ヘッダ
		}
		v, err := row(rec)
		if err != nil {
			skipped++
			slog.Warn("skipping csv row", "line", i+1, "fields", len(rec), "error", err)
			continue
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		slog.Debug("no records decoded from csv", "rows", max(len(records)-1, 0), "skipped", skipped)
	} else {
		slog.Debug("decoded csv", "records", len(out), "skipped", skipped)
	}
	return out
}

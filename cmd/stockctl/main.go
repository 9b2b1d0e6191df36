// Command stockctl は銘柄一覧・企業情報・日中足の同期をターミナルから実行します。
//
// 使い方:
//
//	go run ./cmd/stockctl listings --query apple
//	go run ./cmd/stockctl intraday IBM --refresh
//	go run ./cmd/stockctl company IBM
//	go run ./cmd/stockctl search < queries.txt
package main

import (
	"os"

	"stockwatch/cmd/stockctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

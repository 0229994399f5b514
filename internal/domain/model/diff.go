package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// スナップショット比較で差分が出たフィールド1件。
// From/Toがnilの場合は「その側に値が無い」ことを表し、表示側でN/Aにする。
type FieldDiff struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// DiffSnapshotsは変更前後のスナップショットをフィールド単位で比較する。
//   - どちらかがnilなら差分なし（表示するものが無い）
//   - どちらかがオブジェクトでなければ、fieldを"value"とした1件に畳む
//   - オブジェクト同士なら両方のキーの和集合を取り、JSON表現が一致しない
//     キーだけを返す
//
// 返り値の順序は前側のキー（ソート済み）→ 後側にしか無いキー（ソート済み）。
func DiffSnapshots(previous, next any) []FieldDiff {
	if previous == nil || next == nil {
		return nil
	}

	prevMap, prevOK := asMap(previous)
	nextMap, nextOK := asMap(next)

	//プリミティブ同士はそれ以上分解せず1件に畳む
	if !prevOK || !nextOK {
		return []FieldDiff{{Field: "value", From: previous, To: next}}
	}

	diffs := []FieldDiff{}
	for _, key := range unionKeys(prevMap, nextMap) {
		prevValue := prevMap[key]
		nextValue := nextMap[key]

		if equalJSON(prevValue, nextValue) {
			continue
		}

		diffs = append(diffs, FieldDiff{Field: key, From: prevValue, To: nextValue})
	}

	return diffs
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// 前側のキー（ソート済み）の後ろに、後側にしか無いキー（ソート済み）を並べる。
func unionKeys(previous, next map[string]any) []string {
	prevKeys := make([]string, 0, len(previous))
	for k := range previous {
		prevKeys = append(prevKeys, k)
	}
	sort.Strings(prevKeys)

	nextOnly := make([]string, 0)
	for k := range next {
		if _, ok := previous[k]; !ok {
			nextOnly = append(nextOnly, k)
		}
	}
	sort.Strings(nextOnly)

	return append(prevKeys, nextOnly...)
}

// JSON表現での構造比較。Marshalできない値は一致扱いにしない。
func equalJSON(a, b any) bool {
	aj, aErr := json.Marshal(a)
	bj, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

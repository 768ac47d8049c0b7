package bench

import (
	"fmt"
	"strconv"
	"strings"
)

// Op はベンチマーク対象の操作種別
type Op string

const (
	OpPing Op = "PING"
	OpSet  Op = "SET"
	OpGet  Op = "GET"
	OpDel  Op = "DEL"
)

// KeyRange は GET/DEL のキーが循環する範囲
// i mod KeyRange で意図的にキーを再利用し、参照局所性下の挙動を測る
const KeyRange = 1000

// AllOps は既定の実行順で全操作を返す
func AllOps() []Op {
	return []Op{OpPing, OpSet, OpGet, OpDel}
}

// ParseOp は操作名をパースする。大文字小文字は区別しない
func ParseOp(name string) (Op, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PING":
		return OpPing, nil
	case "SET":
		return OpSet, nil
	case "GET":
		return OpGet, nil
	case "DEL":
		return OpDel, nil
	default:
		return "", fmt.Errorf("unknown operation: %q", name)
	}
}

// ParseOps は操作名のリストをパースする
func ParseOps(names []string) ([]Op, error) {
	ops := make([]Op, 0, len(names))
	for _, name := range names {
		op, err := ParseOp(name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Command は i 回目のイテレーションで発行するコマンド引数列を返す
//
//	PING: 引数なし
//	SET:  key{i} / value{i}（毎回新しいキー）
//	GET:  i mod KeyRange（キー再利用）
//	DEL:  i mod KeyRange（キー再利用）
func (op Op) Command(i int) []string {
	switch op {
	case OpPing:
		return []string{"PING"}
	case OpSet:
		return []string{"SET", "key" + strconv.Itoa(i), "value" + strconv.Itoa(i)}
	case OpGet:
		return []string{"GET", strconv.Itoa(i % KeyRange)}
	case OpDel:
		return []string{"DEL", strconv.Itoa(i % KeyRange)}
	}
	return nil
}

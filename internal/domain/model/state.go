package model

import "fmt"

// 遷移表に無い状態遷移を要求されたときのエラー
type InvalidTransitionError struct {
	Document string
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: illegal transition %s -> %s", e.Document, e.From, e.To)
}

package repository

import "errors"

var (
	// 対象の行が存在しない
	ErrNotFound = errors.New("not found")

	// ユーザーが存在しない（認証まわり専用）
	ErrUserNotFound = errors.New("user not found")

	// 一意制約などの競合
	ErrConflict = errors.New("conflict")
)

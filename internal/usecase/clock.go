package usecase

import "time"

// 現在時刻。伝票番号が日付に依存するのでテストから差し替えられるようにする。
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

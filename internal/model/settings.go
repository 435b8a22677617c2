package model

const (
	FallbackVisitPrice   Money = 15000
	FallbackRetreatPrice Money = 30000
)

var DefaultPractices = []string{"Коррекция", "ТСЯ", "Лепило", "Ребефинг"}

type Settings struct {
	DefaultVisitPrice   Money
	DefaultRetreatPrice Money
	Practices           []string
}

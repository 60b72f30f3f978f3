package models

// RankCode is one step of the club's closed rank ladder, ordered from
// weakest (K) to strongest (A).
type RankCode string

const (
	RankK RankCode = "K"
	RankI RankCode = "I"
	RankH RankCode = "H"
	RankG RankCode = "G"
	RankF RankCode = "F"
	RankE RankCode = "E"
	RankD RankCode = "D"
	RankC RankCode = "C"
	RankB RankCode = "B"
	RankA RankCode = "A"
)

// RankLadder lists every rank in ascending strength order.
var RankLadder = []RankCode{
	RankK, RankI, RankH, RankG, RankF, RankE, RankD, RankC, RankB, RankA,
}

// RankOrdinal returns the position of code on the ladder (0 = weakest).
// The second return is false for codes outside the ladder.
func RankOrdinal(code RankCode) (int, bool) {
	for i, r := range RankLadder {
		if r == code {
			return i, true
		}
	}
	return 0, false
}

func ValidRankCode(code RankCode) bool {
	_, ok := RankOrdinal(code)
	return ok
}

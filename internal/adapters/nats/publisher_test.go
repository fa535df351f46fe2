package natsadapter

import "testing"

func TestBoardSubject(t *testing.T) {
	cases := map[string]string{
		"Charlton":                 "rail.boards.charlton",
		"London Charing Cross":     "rail.boards.london-charing-cross",
		"  St. Pancras (Intl) ":    "rail.boards.st-pancras-intl",
		"King's Lynn":              "rail.boards.king-s-lynn",
		"":                         "rail.boards.unknown",
		"Heathrow Terminals 2 & 3": "rail.boards.heathrow-terminals-2-3",
	}
	for in, want := range cases {
		if got := BoardSubject(in); got != want {
			t.Errorf("BoardSubject(%q) = %q, want %q", in, got, want)
		}
	}
}

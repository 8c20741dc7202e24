package board

// This file contains some sample boards, used solely for testing. They are
// written in the Decode format; whitespace is ignored.

const (
	// MustPass4: black to move has nothing, white can take c1.
	MustPass4 = `B
2100
0000
0000
0000`

	// Wipeout4: white has no discs left, so nobody can move.
	Wipeout4 = `B
1100
0000
0000
0000`

	// Full4 is a finished 4×4 game that white won 9-7.
	Full4 = `W
1122
1212
2121
1222`

	// Corner6 is a 6×6 position (black to move) where a1 is available to
	// black and flips the b2 X-square.
	Corner6 = `B
000000
020000
001200
002100
000000
000000`
)

// MustDecode is Decode for fixtures known to be valid.
func MustDecode(s string) *Board {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}

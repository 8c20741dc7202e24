package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

// playRandom plays up to plies random moves (passing when forced) from b.
func playRandom(rng *frand.RNG, b *Board, plies int) {
	for i := 0; i < plies; i++ {
		moves := b.LegalMoves()
		if len(moves) == 0 {
			if b.IsGameOver() {
				return
			}
			b.Pass()
			continue
		}
		if err := b.Play(moves[rng.Intn(len(moves))]); err != nil {
			panic(err)
		}
	}
}

func testRNG() *frand.RNG {
	seed := make([]byte, 32)
	seed[0] = 42
	return frand.NewCustom(seed, 64, 12)
}

func TestStartingPosition(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(8)
	is.NoErr(err)
	is.Equal(b.Dim(), 8)
	is.Equal(b.ToMove(), Black)
	is.Equal(b.CountDiscs(Black), 2)
	is.Equal(b.CountDiscs(White), 2)
	is.Equal(b.At(Position{3, 3}), White)
	is.Equal(b.At(Position{4, 4}), White)
	is.Equal(b.At(Position{3, 4}), Black)
	is.Equal(b.At(Position{4, 3}), Black)
	is.Equal(b.Score(), 0)
	is.True(!b.IsGameOver())
}

func TestOpeningMoves(t *testing.T) {
	is := is.New(t)
	b, err := NewBoard(8)
	is.NoErr(err)
	moves := b.LegalMoves()
	is.Equal(moves, []Position{{2, 3}, {3, 2}, {4, 5}, {5, 4}})
	descs := make([]string, len(moves))
	for i, m := range moves {
		descs[i] = m.String()
	}
	is.Equal(descs, []string{"d3", "c4", "f5", "e6"})
}

func TestInvalidDimension(t *testing.T) {
	is := is.New(t)
	for _, dim := range []int{0, 2, 3, 5, 7, 18} {
		_, err := NewBoard(dim)
		is.True(errors.Is(err, ErrInvalidDimension))
	}
	for _, dim := range []int{4, 6, 8, 10, 16} {
		_, err := NewBoard(dim)
		is.NoErr(err)
	}
}

func TestPlayFlips(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(8)
	flips, err := b.PlayInto(Position{2, 3}, nil)
	is.NoErr(err)
	is.Equal(flips, []int{3*8 + 3})
	is.Equal(b.At(Position{2, 3}), Black)
	is.Equal(b.At(Position{3, 3}), Black)
	is.Equal(b.CountDiscs(Black), 4)
	is.Equal(b.CountDiscs(White), 1)
	is.Equal(b.ToMove(), White)
}

func TestPlayFlipsSeveralDirections(t *testing.T) {
	is := is.New(t)
	b := MustDecode(`B
1210
0200
1010
0000`)
	// b3 only sees a closed run of whites running off the top edge.
	is.True(!b.IsLegal(Position{2, 1}))
	is.True(!b.IsLegal(Position{1, 3}))

	b2 := MustDecode(`B
1010
0200
1200
0000`)
	// c3 flips b3 to the west and b2 to the north-west.
	flips, err := b2.PlayInto(Position{2, 2}, nil)
	is.NoErr(err)
	is.Equal(len(flips), 2)
	is.Equal(b2.At(Position{1, 1}), Black)
	is.Equal(b2.At(Position{2, 1}), Black)
	is.Equal(b2.CountDiscs(White), 0)
}

func TestIllegalMove(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(8)
	before := b.Encode()

	err := b.Play(Position{0, 0})
	is.True(errors.Is(err, ErrIllegalMove))
	err = b.Play(Position{3, 3})
	is.True(errors.Is(err, ErrIllegalMove))
	err = b.Play(Position{8, 1})
	is.True(errors.Is(err, ErrIllegalMove))
	err = b.Play(Position{-1, 2})
	is.True(errors.Is(err, ErrIllegalMove))

	is.Equal(b.Encode(), before)
}

func TestApplyDoesNotMutate(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(6)
	before := b.Copy()
	next, err := b.Apply(b.LegalMoves()[0])
	is.NoErr(err)
	is.True(b.Equal(before))
	is.True(!next.Equal(before))
	is.Equal(next.ToMove(), White)

	_, err = b.Apply(Position{0, 0})
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestMustPass(t *testing.T) {
	is := is.New(t)
	b := MustDecode(MustPass4)
	is.Equal(len(b.LegalMoves()), 0)
	is.True(!b.IsGameOver())
	is.True(b.HasLegalMove(White))
	b.Pass()
	is.Equal(b.ToMove(), White)
	is.Equal(b.LegalMoves(), []Position{{0, 2}})
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	b := MustDecode(Wipeout4)
	is.True(b.IsGameOver())
	is.Equal(b.Winner(), Black)

	full := MustDecode(Full4)
	is.True(full.IsGameOver())
	is.Equal(full.CountDiscs(Black), 7)
	is.Equal(full.CountDiscs(White), 9)
	is.Equal(full.Score(), -2)
	is.Equal(full.Winner(), White)
}

func TestMobility(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(8)
	is.Equal(b.Mobility(Black), 4)
	is.Equal(b.Mobility(White), 4)
	c := MustDecode(Corner6)
	is.True(c.IsLegal(Position{0, 0}))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	is := is.New(t)
	rng := testRNG()
	for _, dim := range []int{4, 6, 8} {
		for game := 0; game < 20; game++ {
			b, err := NewBoard(dim)
			is.NoErr(err)
			for ply := 0; ply < dim*dim; ply++ {
				decoded, err := Decode(b.Encode())
				is.NoErr(err)
				is.True(decoded.Equal(b))
				playRandom(rng, b, 1)
				if b.IsGameOver() {
					break
				}
			}
		}
	}
}

func TestDecodeStartingPosition(t *testing.T) {
	is := is.New(t)
	b, err := Decode(`B
		00000000
		00000000
		00000000
		00021000
		00012000
		00000000
		00000000
		00000000`)
	is.NoErr(err)
	start, _ := NewBoard(8)
	is.True(b.Equal(start))
	is.Equal(start.Encode()[:1], "B")
	is.Equal(len(start.Encode()), 65)
}

func TestDecodeErrors(t *testing.T) {
	is := is.New(t)
	cases := []string{
		"",
		"   \n\t",
		"B",
		"W   ",
		"X0000000000000000",
		"B000",
		"B00000",
		"B0000000000000003",
		"B000000000000000a",
	}
	for _, c := range cases {
		b, err := Decode(c)
		is.True(errors.Is(err, ErrMalformedEncoding))
		is.Equal(b, nil)
	}
}

func TestSwapColors(t *testing.T) {
	is := is.New(t)
	rng := testRNG()
	b, _ := NewBoard(8)
	playRandom(rng, b, 12)
	sw := b.SwapColors()
	is.Equal(sw.CountDiscs(Black), b.CountDiscs(White))
	is.Equal(sw.CountDiscs(White), b.CountDiscs(Black))
	is.Equal(sw.ToMove(), b.ToMove().Opponent())
	is.Equal(sw.Score(), -b.Score())
	is.True(sw.SwapColors().Equal(b))
}

func TestCopyIntoReusesStorage(t *testing.T) {
	is := is.New(t)
	b, _ := NewBoard(8)
	dst := &Board{}
	b.CopyInto(dst)
	is.True(dst.Equal(b))
	addr := &dst.squares[0]
	dst.Clear()
	b.CopyInto(dst)
	is.True(addr == &dst.squares[0])
	is.True(dst.Equal(b))

	// mutating the copy leaves the original alone
	is.NoErr(dst.Play(dst.LegalMoves()[0]))
	is.True(!dst.Equal(b))
}

func TestParsePosition(t *testing.T) {
	is := is.New(t)
	p, err := ParsePosition("d3", 8)
	is.NoErr(err)
	is.Equal(p, Position{Row: 2, Col: 3})
	p, err = ParsePosition(" H8 ", 8)
	is.NoErr(err)
	is.Equal(p, Position{Row: 7, Col: 7})
	for _, bad := range []string{"", "d", "z1", "a0", "a9", "33"} {
		_, err := ParsePosition(bad, 8)
		is.True(errors.Is(err, ErrBadCoordinate))
	}
	is.Equal(NoPosition.String(), "--")
}

func TestChecksumStable(t *testing.T) {
	is := is.New(t)
	a, _ := NewBoard(8)
	b, _ := NewBoard(8)
	is.Equal(a.Checksum(), b.Checksum())
	is.NoErr(b.Play(b.LegalMoves()[0]))
	is.True(a.Checksum() != b.Checksum())
}

func BenchmarkLegalMoves(b *testing.B) {
	bd, _ := NewBoard(8)
	buf := make([]Position, 0, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = bd.LegalMovesInto(buf[:0])
	}
}

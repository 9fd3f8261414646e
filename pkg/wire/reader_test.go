package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// feedSource scripts a Source byte by byte: each step is either an
// available byte or a "nothing available now" gap.
type feedSource struct {
	steps []feedStep
}

type feedStep struct {
	b  byte
	ok bool
}

func feed() *feedSource {
	return &feedSource{}
}

func (s *feedSource) bytes(p ...byte) *feedSource {
	for _, b := range p {
		s.steps = append(s.steps, feedStep{b: b, ok: true})
	}
	return s
}

func (s *feedSource) text(t string) *feedSource {
	return s.bytes([]byte(t)...)
}

func (s *feedSource) term(n int) *feedSource {
	for i := 0; i < n; i++ {
		s.steps = append(s.steps, feedStep{b: Term, ok: true})
	}
	return s
}

func (s *feedSource) gap(n int) *feedSource {
	for i := 0; i < n; i++ {
		s.steps = append(s.steps, feedStep{})
	}
	return s
}

func (s *feedSource) ReadByte() (byte, bool) {
	if len(s.steps) == 0 {
		return 0, false
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	return st.b, st.ok
}

func (s *feedSource) Buffered() int {
	n := 0
	for _, st := range s.steps {
		if !st.ok {
			break
		}
		n++
	}
	return n
}

type readExpect struct {
	status ReadStatus
	frame  string
}

func expectFrame(cmd string) readExpect {
	return readExpect{status: ReadFrame, frame: string(Build(cmd))}
}

func TestReaderFrames(t *testing.T) {
	testCases := []struct {
		name  string
		src   *feedSource
		reads []readExpect
	}{
		{
			name:  "single frame",
			src:   feed().text("pdia=160").term(3),
			reads: []readExpect{expectFrame("pdia=160")},
		},
		{
			name: "back to back frames",
			src:  feed().text("s.val=125").term(3).text("p.val=7").term(3),
			reads: []readExpect{
				expectFrame("s.val=125"),
				expectFrame("p.val=7"),
			},
		},
		{
			name: "gaps inside a frame",
			src:  feed().text("v.va").gap(3).text("l=9").term(3),
			reads: []readExpect{
				expectFrame("v.val=9"),
			},
		},
		{
			name: "early terminator run splits the payload",
			src:  feed().text("ab").term(3).text("cd").term(3),
			reads: []readExpect{
				expectFrame("ab"),
				expectFrame("cd"),
			},
		},
		{
			name: "stray terminator discarded as empty",
			src:  feed().term(1).text("ok").term(3),
			reads: []readExpect{
				{status: ReadEmpty},
				expectFrame("ok"),
			},
		},
		{
			name: "overlapping terminators drained",
			src:  feed().text("a").term(5).text("b").term(3),
			reads: []readExpect{
				expectFrame("a"),
				expectFrame("b"),
			},
		},
		{
			name: "drain keeps the first byte of the next frame",
			src:  feed().text("a").term(4).text("b").term(3),
			reads: []readExpect{
				expectFrame("a"),
				expectFrame("b"),
			},
		},
		{
			name: "three stray terminators never form a frame",
			src:  feed().term(3).text("c").term(3),
			reads: []readExpect{
				{status: ReadEmpty},
				{status: ReadEmpty},
				{status: ReadEmpty},
				expectFrame("c"),
			},
		},
		{
			name:  "idle source",
			src:   feed(),
			reads: []readExpect{{status: ReadEmpty}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rd := NewReader(tc.src)
			rd.Timeout = 2 * time.Millisecond
			for n, expect := range tc.reads {
				f, status := rd.Read()
				require.Equalf(t, expect.status, status, "read[%d] status", n)
				if expect.status == ReadFrame {
					require.Equalf(t, expect.frame, string(f), "read[%d] frame", n)
				} else {
					require.Nilf(t, f, "read[%d] frame", n)
				}
			}
		})
	}
}

func TestReaderIncomplete(t *testing.T) {
	t.Run("timeout abandons a torn frame", func(t *testing.T) {
		rd := NewReader(feed().text("s.val=1"))
		rd.Timeout = 2 * time.Millisecond
		f, status := rd.Read()
		require.Equal(t, ReadIncomplete, status)
		require.Nil(t, f)
		// The next capture starts clean.
		_, status = rd.Read()
		require.Equal(t, ReadEmpty, status)
	})

	t.Run("buffer overflow discards without waiting", func(t *testing.T) {
		src := feed()
		for i := 0; i < MaxFrameLen+8; i++ {
			src.bytes('x')
		}
		rd := NewReader(src)
		start := time.Now()
		_, status := rd.Read()
		require.Equal(t, ReadIncomplete, status)
		require.Less(t, time.Since(start), rd.Timeout)
	})

	t.Run("terminator on the window edge still completes", func(t *testing.T) {
		src := feed()
		for i := 0; i < MaxFrameLen-TermRunLen; i++ {
			src.bytes('x')
		}
		src.term(3)
		rd := NewReader(src)
		f, status := rd.Read()
		require.Equal(t, ReadFrame, status)
		require.Len(t, f, MaxFrameLen)
	})
}

func TestReaderRoundTrip(t *testing.T) {
	for _, cmd := range []string{"pdia=160", "s.val=125", "led.pic=0", "x"} {
		t.Run(cmd, func(t *testing.T) {
			src := feed().bytes(Build(cmd)...)
			rd := NewReader(src)
			f, status := rd.Read()
			require.Equal(t, ReadFrame, status)
			require.Equal(t, cmd, string(f.Command()))
			require.Equal(t, Build(cmd), f)
		})
	}
}

package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	testCases := []struct {
		name   string
		frame  Frame
		status RecordStatus
		record Record
	}{
		{"swr", Build("s.val=125"), RecordValue, Record{Key: 's', Raw: 125}},
		{"voltage", Build("v.val=500"), RecordValue, Record{Key: 'v', Raw: 500}},
		{"temperature zero", Build("t.val=0"), RecordValue, Record{Key: 't', Raw: 0}},
		{"no digits", Build("p.val="), RecordBad, Record{Key: 'p'}},
		{"garbage digits", Build("c.val=1x2"), RecordBad, Record{Key: 'c'}},
		{"negative rejected", Build("r.val=-5"), RecordBad, Record{Key: 'r'}},
		{"overflow rejected", Build("v.val=" + strings.Repeat("9", 30)), RecordBad, Record{Key: 'v'}},
		{"unknown key", Build("x.val=5"), RecordNone, Record{}},
		{"multi char key", Build("swr.val=0"), RecordNone, Record{}},
		{"not a record", Build("pdia=160"), RecordNone, Record{}},
		{"bare key", Build("v"), RecordNone, Record{}},
		{"unterminated", Frame("s.val=125"), RecordNone, Record{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, status := ParseRecord(tc.frame)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.record, rec)
		})
	}
}

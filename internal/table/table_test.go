package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByMultiKeyStable(t *testing.T) {
	tbl := New("period", "seconds", "tag")
	tbl.Append(Row{"period": float64(2), "seconds": int64(10), "tag": "d"})
	tbl.Append(Row{"period": float64(1), "seconds": int64(700), "tag": "c"})
	tbl.Append(Row{"period": float64(1), "seconds": int64(300), "tag": "a"})
	tbl.Append(Row{"period": float64(1), "seconds": int64(300), "tag": "b"})

	tbl.SortBy("period", "seconds")

	var tags []string
	for _, row := range tbl.Rows() {
		tags = append(tags, row["tag"].(string))
	}
	// a and b tie on both keys and must keep their input order.
	assert.Equal(t, []string{"a", "b", "c", "d"}, tags)
}

func TestSortByMixedNumericTypes(t *testing.T) {
	tbl := New("k")
	tbl.Append(Row{"k": int64(20)})
	tbl.Append(Row{"k": float64(3)})
	tbl.Append(Row{"k": int64(7)})

	tbl.SortBy("k")

	assert.Equal(t, float64(3), tbl.Rows()[0]["k"])
	assert.Equal(t, int64(7), tbl.Rows()[1]["k"])
	assert.Equal(t, int64(20), tbl.Rows()[2]["k"])
}

func TestLeftJoin(t *testing.T) {
	left := New("p1")
	left.Append(Row{"p1": int64(10)})
	left.Append(Row{"p1": int64(99)}) // no match
	left.Append(Row{"p1": nil})       // never matches

	right := New("id", "full_name")
	right.Append(Row{"id": float64(10), "full_name": "Jane Smith"})

	out := left.LeftJoin(right, "p1", "id", "full_name", "p1_name")

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"p1", "p1_name"}, out.Columns())
	assert.Equal(t, "Jane Smith", out.Rows()[0]["p1_name"])
	assert.Nil(t, out.Rows()[1]["p1_name"])
	assert.Nil(t, out.Rows()[2]["p1_name"])
}

func TestLeftJoinDuplicateRightKeysDuplicateRows(t *testing.T) {
	left := New("p1", "tag")
	left.Append(Row{"p1": int64(10), "tag": "only"})

	right := New("id", "full_name")
	right.Append(Row{"id": float64(10), "full_name": "Jane Smith"})
	right.Append(Row{"id": float64(10), "full_name": "Jane B Smith"})

	out := left.LeftJoin(right, "p1", "id", "full_name", "p1_name")

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "Jane Smith", out.Rows()[0]["p1_name"])
	assert.Equal(t, "Jane B Smith", out.Rows()[1]["p1_name"])
	assert.Equal(t, "only", out.Rows()[1]["tag"])
}

func TestFillMissing(t *testing.T) {
	tbl := New("a", "b")
	tbl.Append(Row{"a": "x"})
	tbl.Append(Row{"a": nil, "b": float64(1)})

	tbl.FillMissing(int64(0))

	assert.Equal(t, int64(0), tbl.Rows()[0]["b"])
	assert.Equal(t, int64(0), tbl.Rows()[1]["a"])
	assert.Equal(t, "x", tbl.Rows()[0]["a"])
	assert.Equal(t, float64(1), tbl.Rows()[1]["b"])
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"float", float64(10), int64(10)},
		{"numeric string", "42", int64(42)},
		{"float string", "42.0", int64(42)},
		{"already int", int64(7), int64(7)},
		{"garbage string", "abc", nil},
		{"fractional float", float64(1.5), nil},
		{"nil", nil, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tbl := New("v")
			tbl.Append(Row{"v": test.in})
			tbl.CoerceInt("v")
			assert.Equal(t, test.want, tbl.Rows()[0]["v"])
		})
	}
}

func TestSetBroadcastsAndAddsColumn(t *testing.T) {
	tbl := New("a")
	tbl.Append(Row{"a": int64(1)})
	tbl.Append(Row{"a": int64(2)})

	tbl.Set("home_team", "Buffalo Beauts")

	assert.Equal(t, []string{"a", "home_team"}, tbl.Columns())
	for _, row := range tbl.Rows() {
		assert.Equal(t, "Buffalo Beauts", row["home_team"])
	}
}

func TestSelectReordersAndKeepsMissingNil(t *testing.T) {
	tbl := New("a", "b")
	tbl.Append(Row{"a": int64(1), "b": "x"})

	out := tbl.Select("b", "a", "c")

	assert.Equal(t, []string{"b", "a", "c"}, out.Columns())
	assert.Equal(t, "x", out.Rows()[0]["b"])
	assert.Nil(t, out.Rows()[0]["c"])
}

func TestWritePipe(t *testing.T) {
	tbl := New("id", "name", "x")
	tbl.Append(Row{"id": float64(18507472), "name": "Jane Smith", "x": float64(34.5)})
	tbl.Append(Row{"id": int64(0), "name": nil, "x": float64(-30)})

	var buf bytes.Buffer
	require.NoError(t, tbl.WritePipe(&buf))

	want := "id|name|x\n" +
		"18507472|Jane Smith|34.5\n" +
		"0||-30\n"
	assert.Equal(t, want, buf.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "18507472", Format(float64(18507472)))
	assert.Equal(t, "34", Format(float64(34.0)))
	assert.Equal(t, "-1.25", Format(float64(-1.25)))
	assert.Equal(t, "12", Format(int64(12)))
	assert.Equal(t, "raw", Format("raw"))
}

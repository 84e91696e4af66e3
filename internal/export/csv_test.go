package export

import "testing"

func TestToCSV(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		rows    [][]string
		want    string
	}{
		{
			name:    "quotes doubled and commas preserved",
			headers: []string{"a", "b"},
			rows:    [][]string{{`He said "hi"`, "x,y"}},
			want:    "\"a\",\"b\"\n\"He said \"\"hi\"\"\",\"x,y\"",
		},
		{
			name:    "headers only",
			headers: []string{"Number", "Total"},
			rows:    nil,
			want:    `"Number","Total"`,
		},
		{
			name:    "every field is quoted even when bare would be legal",
			headers: []string{"n"},
			rows:    [][]string{{"1"}, {"2"}},
			want:    "\"n\"\n\"1\"\n\"2\"",
		},
		{
			name:    "empty fields stay quoted",
			headers: []string{"a", "b"},
			rows:    [][]string{{"", "x"}},
			want:    "\"a\",\"b\"\n\"\",\"x\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCSV(tt.headers, tt.rows); got != tt.want {
				t.Errorf("ToCSV() = %q, want %q", got, tt.want)
			}
		})
	}
}

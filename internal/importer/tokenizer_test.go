package importer

import (
	"reflect"
	"testing"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim rune
		want  []string
	}{
		{
			name:  "plain comma fields",
			line:  "a,b,c",
			delim: ',',
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "quoted field containing delimiter",
			line:  `20250101001,"서울시 강남구, 역삼동",거래가능`,
			delim: ',',
			want:  []string{"20250101001", "서울시 강남구, 역삼동", "거래가능"},
		},
		{
			name:  "semicolon delimiter",
			line:  "매물번호;매물명;상태",
			delim: ';',
			want:  []string{"매물번호", "매물명", "상태"},
		},
		{
			name:  "whitespace trimmed per field",
			line:  " a , b ,c ",
			delim: ',',
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "empty fields preserved",
			line:  "a,,c,",
			delim: ',',
			want:  []string{"a", "", "c", ""},
		},
		{
			name:  "unterminated quote degrades to best effort",
			line:  `a,"b,c`,
			delim: ',',
			want:  []string{"a", "b,c"},
		},
		{
			name:  "single field",
			line:  "only",
			delim: ',',
			want:  []string{"only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLine(tt.line, tt.delim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   rune
	}{
		{"comma header", "매물번호,매물명,상태", ','},
		{"semicolon header", "매물번호;매물명;상태", ';'},
		{"comma wins tie", "매물번호", ','},
		{"quoted delimiters ignored", `a;b;"c,d";e`, ';'},
		{"mixed with more commas", "a,b,c;d", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.header); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

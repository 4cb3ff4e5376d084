package youtube

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "standard watch url",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch url without www",
			url:  "https://youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch url without protocol",
			url:  "www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short url",
			url:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "embed url",
			url:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "legacy v url",
			url:  "https://www.youtube.com/v/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "shorts url",
			url:  "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch url with extra params",
			url:  "https://www.youtube.com/watch?t=42&v=dQw4w9WgXcQ&list=PLx",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "mobile watch url",
			url:  "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "surrounding whitespace",
			url:  "  https://youtu.be/dQw4w9WgXcQ  ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "id with underscore and hyphen",
			url:  "https://www.youtube.com/watch?v=a_b-C1d2E3f",
			want: "a_b-C1d2E3f",
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			url:     "   ",
			wantErr: true,
		},
		{
			name:    "not a youtube url",
			url:     "https://vimeo.com/123456789",
			wantErr: true,
		},
		{
			name:    "watch url without v parameter",
			url:     "https://www.youtube.com/watch?list=PLx",
			wantErr: true,
		},
		{
			name:    "id too short",
			url:     "https://youtu.be/short",
			wantErr: true,
		},
		{
			name:    "bare video id is not a url",
			url:     "dQw4w9WgXcQ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractVideoID(%q) = %q, want error", tt.url, got)
				}
				if !errors.Is(err, ErrInvalidVideoURL) {
					t.Fatalf("ExtractVideoID(%q) error = %v, want ErrInvalidVideoURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) unexpected error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

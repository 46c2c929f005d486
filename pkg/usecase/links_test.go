package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/iocost-bot/pkg/usecase"
)

func TestExtractLinks(t *testing.T) {
	allowlist := []string{
		"https://example.com/files/",
		"https://submit.s3.example.amazonaws.com/",
	}

	tests := []struct {
		name     string
		text     string
		accepted []string
		rejected []string
	}{
		{
			name:     "bare URL in prose",
			text:     "results attached: https://example.com/files/123/result.json.gz thanks!",
			accepted: []string{"https://example.com/files/123/result.json.gz"},
		},
		{
			name: "keeps first-appearance order",
			text: "first https://example.com/files/1 then https://submit.s3.example.amazonaws.com/2 and https://example.com/files/3",
			accepted: []string{
				"https://example.com/files/1",
				"https://submit.s3.example.amazonaws.com/2",
				"https://example.com/files/3",
			},
		},
		{
			name: "duplicates are preserved",
			text: "https://example.com/files/1 and again https://example.com/files/1",
			accepted: []string{
				"https://example.com/files/1",
				"https://example.com/files/1",
			},
		},
		{
			name:     "untrusted origins are rejected",
			text:     "see https://evil.example.org/result.json.gz and https://example.com/files/1",
			accepted: []string{"https://example.com/files/1"},
			rejected: []string{"https://evil.example.org/result.json.gz"},
		},
		{
			name:     "prefix match is literal and case-sensitive",
			text:     "https://Example.com/files/1 https://example.com/FILES/1",
			rejected: []string{"https://Example.com/files/1", "https://example.com/FILES/1"},
		},
		{
			name: "markdown links are recognized",
			text: "[my results](https://example.com/files/9/res.json.gz)",
			accepted: []string{
				"https://example.com/files/9/res.json.gz",
			},
		},
		{
			name: "no links at all",
			text: "just some text about benchmarks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, rejected := usecase.ExtractLinks(tt.text, allowlist)
			gt.Equal(t, accepted, tt.accepted)
			gt.Equal(t, rejected, tt.rejected)
		})
	}
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFlags(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		runs    int
		topK    int
		wantErr bool
	}{
		{"valid", "cat dog", 200, 10, false},
		{"single run", "cat", 1, 1, false},
		{"missing query", "", 200, 10, true},
		{"zero runs", "cat", 0, 10, true},
		{"negative runs", "cat", -5, 10, true},
		{"zero top-k", "cat", 10, 0, true},
		{"negative top-k", "cat", 10, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFlags(tt.query, tt.runs, tt.topK)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumberToCurrencyWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"590", "Five Hundred Ninety Rupees Only"},
		{"1920", "One Thousand Nine Hundred Twenty Rupees Only"},
		{"60.50", "Sixty Rupees and Fifty Paise Only"},
		{"0.75", "Seventy Five Paise Only"},
		{"125000", "One Lakh Twenty Five Thousand Rupees Only"},
		{"10000000", "One Crore Rupees Only"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := NumberToCurrencyWords(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

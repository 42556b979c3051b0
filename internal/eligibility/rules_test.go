package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"btocore/pkg/domain"
)

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		marital  domain.MaritalStatus
		flatType domain.FlatTypeKind
		want     bool
	}{
		{"married 21 two-room", 21, domain.MaritalMarried, domain.FlatTwoRoom, true},
		{"married 21 three-room", 21, domain.MaritalMarried, domain.FlatThreeRoom, true},
		{"married 20 two-room", 20, domain.MaritalMarried, domain.FlatTwoRoom, false},
		{"single 34 two-room", 34, domain.MaritalSingle, domain.FlatTwoRoom, false},
		{"single 35 two-room", 35, domain.MaritalSingle, domain.FlatTwoRoom, true},
		{"single 35 three-room", 35, domain.MaritalSingle, domain.FlatThreeRoom, false},
		{"single 70 three-room", 70, domain.MaritalSingle, domain.FlatThreeRoom, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.age, tt.marital, tt.flatType))
		})
	}
}

func TestEligibleFlatTypes(t *testing.T) {
	assert.Equal(t, []domain.FlatTypeKind{domain.FlatTwoRoom, domain.FlatThreeRoom},
		EligibleFlatTypes(30, domain.MaritalMarried))
	assert.Equal(t, []domain.FlatTypeKind{domain.FlatTwoRoom},
		EligibleFlatTypes(40, domain.MaritalSingle))
	assert.Empty(t, EligibleFlatTypes(34, domain.MaritalSingle))
}

package pricing

import (
	"testing"

	"queentouch/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDiscount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		actor     *models.Actor
		wantFrac  float64
		wantLabel string
	}{
		{"Guest", nil, 0, ""},
		{"Plain User", &models.Actor{Role: models.RoleUser}, 0, ""},
		{"Admin Flag", &models.Actor{IsAdmin: true}, 0.50, "50% OFF"},
		{"Admin Role", &models.Actor{Role: models.RoleAdmin}, 0.50, "50% OFF"},
		{"Distributor", &models.Actor{Role: models.RoleDistributor}, 0.50, "50% OFF"},
		{"Gold", &models.Actor{Role: models.RoleMember, Tier: models.TierGold}, 0.20, "Gold 20% OFF"},
		{"Silver", &models.Actor{Role: models.RoleMember, Tier: models.TierSilver}, 0.10, "Silver 10% OFF"},
		{"Bronze", &models.Actor{Role: models.RoleMember, Tier: models.TierBronze}, 0.05, "Bronze 5% OFF"},
		{"Admin Wins Over Tier", &models.Actor{IsAdmin: true, Tier: models.TierBronze}, 0.50, "50% OFF"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			frac, label := Discount(tt.actor)
			assert.Equal(t, tt.wantFrac, frac)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestPrice(t *testing.T) {
	t.Parallel()
	gold := &models.Actor{Role: models.RoleMember, Tier: models.TierGold}

	got, err := Price(100000, gold)
	assert.NoError(t, err)
	assert.Equal(t, int64(80000), got)

	got, err = Price(100000, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(100000), got)

	// Rounds to the nearest peso.
	bronze := &models.Actor{Tier: models.TierBronze}
	got, err = Price(999, bronze)
	assert.NoError(t, err)
	assert.Equal(t, int64(949), got) // 999 * 0.95 = 949.05

	_, err = Price(0, nil)
	assert.Error(t, err)
	_, err = Price(-100, gold)
	assert.Error(t, err)
}

func TestWholesalePrice(t *testing.T) {
	t.Parallel()

	got, err := WholesalePrice(100000)
	assert.NoError(t, err)
	assert.Equal(t, int64(60000), got)

	got, err = WholesalePrice(35000)
	assert.NoError(t, err)
	assert.Equal(t, int64(21000), got)

	_, err = WholesalePrice(0)
	assert.Error(t, err)
}

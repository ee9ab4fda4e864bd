package domain_test

import (
	"testing"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestUserProfile_Summary(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.UserProfile
		want    string
	}{
		{"Empty", domain.UserProfile{}, ""},
		{"Single Field", domain.UserProfile{City: "Lisbon"}, "City: Lisbon\n"},
		{
			"Fixed Order Regardless Of Assignment",
			domain.UserProfile{Goals: "friendship", Name: "Ann", Age: "30"},
			"Name: Ann\nAge: 30\nDating goals: friendship\n",
		},
		{
			"All Fields",
			domain.UserProfile{
				Name: "a", Sex: "b", Age: "c", City: "d", Occupation: "e",
				Hobby: "f", Handsome: "g", Wealth: "h", Annoys: "i", Goals: "j",
			},
			"Name: a\nSex: b\nAge: c\nCity: d\nOccupation: e\nHobby: f\n" +
				"Attractiveness (points out of 10): g\nIncome, wealth: h\nDislikes in people: i\nDating goals: j\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Summary())
			assert.Equal(t, tt.want, tt.profile.String())
		})
	}
}

func TestUserProfile_SetGet(t *testing.T) {
	var p domain.UserProfile
	p.Set(domain.FieldHobby, "chess")
	p.Set(domain.ProfileField(42), "ignored")

	assert.Equal(t, "chess", p.Hobby)
	assert.Equal(t, "chess", p.Get(domain.FieldHobby))
	assert.Equal(t, "", p.Get(domain.ProfileField(42)))
	assert.Equal(t, "", domain.ProfileField(-1).Label())
}

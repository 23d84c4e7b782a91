package persona

import (
	"reflect"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	for _, modeID := range []string{"banking", "insurance", "healthcare", "pet_store"} {
		t.Run(modeID, func(t *testing.T) {
			a := Generate(modeID, 42)
			b := Generate(modeID, 42)
			if !reflect.DeepEqual(a, b) {
				t.Errorf("same seed produced different personas for %s", modeID)
			}
			c := Generate(modeID, 43)
			if reflect.DeepEqual(a, c) {
				t.Errorf("different seeds produced identical personas for %s", modeID)
			}
		})
	}
}

func TestGenerateBankingShape(t *testing.T) {
	p := Generate("banking", 7)

	if p["name"] != "Marco Casalaina" {
		t.Errorf("name = %v", p["name"])
	}
	for _, key := range []string{"member_since", "checking_balance", "savings_balance", "account_number_last4", "credit_score", "credit_limit"} {
		if _, ok := p[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	txs, ok := p["recent_transactions"].([]Transaction)
	if !ok {
		t.Fatalf("recent_transactions wrong type: %T", p["recent_transactions"])
	}
	if len(txs) < 5 || len(txs) > 10 {
		t.Errorf("transaction count out of range: %d", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i-1].Date < txs[i].Date {
			t.Errorf("transactions not sorted newest-first at index %d", i)
		}
	}
	score := p["credit_score"].(int)
	if score < 620 || score > 820 {
		t.Errorf("credit score out of range: %d", score)
	}
}

func TestGenerateInsuranceShape(t *testing.T) {
	p := Generate("insurance", 11)

	policies := p["active_policies"].([]Policy)
	if len(policies) < 1 || len(policies) > 3 {
		t.Fatalf("policy count out of range: %d", len(policies))
	}
	seen := map[string]bool{}
	var wantCoverage float64
	for _, pol := range policies {
		if seen[pol.Type] {
			t.Errorf("duplicate policy type %q", pol.Type)
		}
		seen[pol.Type] = true
		wantCoverage += pol.Coverage
	}
	if p["total_coverage"].(float64) != wantCoverage {
		t.Errorf("total_coverage %v does not match policy sum %v", p["total_coverage"], wantCoverage)
	}
	risk := p["risk_score"].(string)
	if risk != "low" && risk != "medium" && risk != "high" {
		t.Errorf("unexpected risk_score %q", risk)
	}
}

func TestGenerateHealthcareShape(t *testing.T) {
	p := Generate("healthcare", 23)

	if met := p["deductible_met"].(float64); met > p["deductible"].(float64) {
		t.Errorf("deductible_met %v exceeds deductible %v", met, p["deductible"])
	}
	prescriptions := p["active_prescriptions"].([]Prescription)
	if len(prescriptions) < 1 || len(prescriptions) > 3 {
		t.Errorf("prescription count out of range: %d", len(prescriptions))
	}
	appointments := p["upcoming_appointments"].([]Appointment)
	for i := 1; i < len(appointments); i++ {
		if appointments[i-1].Date > appointments[i].Date {
			t.Errorf("appointments not sorted soonest-first")
		}
	}
}

func TestGenerateGenericFallback(t *testing.T) {
	p := Generate("pet_store", 99)

	hint, ok := p["context_hint"].(string)
	if !ok || hint != "This is a Pet Store customer dashboard." {
		t.Errorf("context_hint = %v", p["context_hint"])
	}
	if _, ok := p["loyalty_points"]; !ok {
		t.Error("missing loyalty_points")
	}
}

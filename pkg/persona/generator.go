package persona

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Seeded synthetic profile generation. The same (mode id, seed) pair must
// always produce the same profile so a session's persona stays stable
// across turns and across the text/voice channels.

// The demo account holder is always the same person across families.
const profileName = "Marco Casalaina"

type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"` // "debit" or "credit"
}

type Policy struct {
	Type         string  `json:"type"`
	Coverage     float64 `json:"coverage"`
	Premium      float64 `json:"premium"`
	Deductible   float64 `json:"deductible"`
	PolicyNumber string  `json:"policy_number"`
	RenewalDate  string  `json:"renewal_date"`
}

type Claim struct {
	ClaimId string  `json:"claim_id"`
	Date    string  `json:"date"`
	Type    string  `json:"type"`
	Amount  float64 `json:"amount"`
	Status  string  `json:"status"`
}

type Appointment struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Provider  string `json:"provider"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`
}

type Prescription struct {
	Medication       string `json:"medication"`
	Dosage           string `json:"dosage"`
	Frequency        string `json:"frequency"`
	RefillsRemaining int    `json:"refills_remaining"`
}

// Generate builds the persona map for the given mode. Known families get
// rich domain shapes; anything else falls back to a generic customer
// profile so dynamically generated modes still have data to talk about.
func Generate(modeID string, seed int64) map[string]interface{} {
	switch strings.ToLower(modeID) {
	case "banking":
		return generateBanking(seed)
	case "insurance":
		return generateInsurance(seed)
	case "healthcare":
		return generateHealthcare(seed)
	default:
		return generateGeneric(titleCase(strings.ReplaceAll(modeID, "_", " ")), seed)
	}
}

func generateBanking(seed int64) map[string]interface{} {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	numTx := 5 + rng.Intn(6)
	transactions := make([]Transaction, 0, numTx)
	for i := 0; i < numTx; i++ {
		isDebit := rng.Intn(2) == 0
		tx := Transaction{
			Date:     now.AddDate(0, 0, -rng.Intn(30)).Format("2006-01-02"),
			Category: "credit",
		}
		if isDebit {
			tx.Description = pick(rng, merchants)
			tx.Amount = roundCents(5 + rng.Float64()*495)
			tx.Category = "debit"
		} else {
			tx.Description = pick(rng, creditSources)
			tx.Amount = roundCents(100 + rng.Float64()*2900)
		}
		transactions = append(transactions, tx)
	}
	// Most recent first
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].Date > transactions[j].Date })

	return map[string]interface{}{
		"name":                 profileName,
		"member_since":         fmt.Sprintf("%d", now.Year()-1-rng.Intn(14)),
		"checking_balance":     roundCents(500 + rng.Float64()*14500),
		"savings_balance":      roundCents(1000 + rng.Float64()*49000),
		"account_number_last4": fmt.Sprintf("%04d", rng.Intn(10000)),
		"credit_score":         620 + rng.Intn(201),
		"credit_limit":         roundCents(2000 + rng.Float64()*23000),
		"recent_transactions":  transactions,
	}
}

func generateInsurance(seed int64) map[string]interface{} {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	policyTypes := []string{"Auto", "Home", "Life", "Umbrella"}
	rng.Shuffle(len(policyTypes), func(i, j int) {
		policyTypes[i], policyTypes[j] = policyTypes[j], policyTypes[i]
	})
	numPolicies := 1 + rng.Intn(3)

	var totalCoverage, totalPremium float64
	policies := make([]Policy, 0, numPolicies)
	for _, pt := range policyTypes[:numPolicies] {
		var coverage, premium, deductible float64
		switch pt {
		case "Auto":
			coverage = float64(25000 + rng.Intn(75001))
			premium = roundCents(80 + rng.Float64()*170)
			deductible = pickFloat(rng, []float64{250, 500, 1000})
		case "Home":
			coverage = float64(200000 + rng.Intn(550001))
			premium = roundCents(100 + rng.Float64()*300)
			deductible = pickFloat(rng, []float64{500, 1000, 2500})
		case "Life":
			coverage = float64(100000 + rng.Intn(900001))
			premium = roundCents(30 + rng.Float64()*120)
		default: // Umbrella
			coverage = float64(1000000 + rng.Intn(4000001))
			premium = roundCents(20 + rng.Float64()*60)
		}
		totalCoverage += coverage
		totalPremium += premium
		policies = append(policies, Policy{
			Type:         pt,
			Coverage:     coverage,
			Premium:      premium,
			Deductible:   deductible,
			PolicyNumber: fmt.Sprintf("POL-%04d-%s", rng.Intn(10000), letters(rng, 4)),
			RenewalDate:  now.AddDate(0, 0, 30+rng.Intn(336)).Format("2006-01-02"),
		})
	}

	numClaims := rng.Intn(3)
	claimTypes := []string{"Collision", "Property Damage", "Medical", "Theft", "Weather"}
	claimStatuses := []string{"approved", "pending", "in_review", "denied"}
	claims := make([]Claim, 0, numClaims)
	for i := 0; i < numClaims; i++ {
		claims = append(claims, Claim{
			ClaimId: fmt.Sprintf("CLM-%08d", rng.Intn(100000000)),
			Date:    now.AddDate(0, 0, -(30 + rng.Intn(700))).Format("2006-01-02"),
			Type:    pick(rng, claimTypes),
			Amount:  roundCents(500 + rng.Float64()*14500),
			Status:  pick(rng, claimStatuses),
		})
	}

	var riskScore string
	switch numClaims {
	case 0:
		riskScore = "low"
	case 1:
		riskScore = pick(rng, []string{"low", "medium"})
	default:
		riskScore = pick(rng, []string{"medium", "high"})
	}

	return map[string]interface{}{
		"name":            profileName,
		"member_since":    fmt.Sprintf("%d", now.Year()-1-rng.Intn(19)),
		"active_policies": policies,
		"claims_history":  claims,
		"total_coverage":  totalCoverage,
		"monthly_premium": roundCents(totalPremium),
		"risk_score":      riskScore,
	}
}

func generateHealthcare(seed int64) map[string]interface{} {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	specialties := []string{"Primary Care", "Cardiology", "Dermatology", "Orthopedics", "Ophthalmology", "Dentistry"}
	times := []string{"9:00 AM", "10:30 AM", "1:00 PM", "2:30 PM", "4:00 PM"}

	numAppointments := rng.Intn(3)
	appointments := make([]Appointment, 0, numAppointments)
	for i := 0; i < numAppointments; i++ {
		appointments = append(appointments, Appointment{
			Date:      now.AddDate(0, 0, 1+rng.Intn(90)).Format("2006-01-02"),
			Time:      pick(rng, times),
			Provider:  "Dr. " + pick(rng, surnames),
			Specialty: pick(rng, specialties),
			Location:  pick(rng, cities) + " Medical Center",
		})
	}
	sort.Slice(appointments, func(i, j int) bool { return appointments[i].Date < appointments[j].Date })

	type med struct{ name, dosage, frequency string }
	medications := []med{
		{"Lisinopril", "10mg", "Once daily"},
		{"Metformin", "500mg", "Twice daily"},
		{"Atorvastatin", "20mg", "Once daily at bedtime"},
		{"Omeprazole", "20mg", "Once daily before breakfast"},
		{"Amlodipine", "5mg", "Once daily"},
		{"Levothyroxine", "50mcg", "Once daily on empty stomach"},
		{"Sertraline", "50mg", "Once daily"},
		{"Gabapentin", "300mg", "Three times daily"},
	}
	rng.Shuffle(len(medications), func(i, j int) {
		medications[i], medications[j] = medications[j], medications[i]
	})
	numPrescriptions := 1 + rng.Intn(3)
	prescriptions := make([]Prescription, 0, numPrescriptions)
	for _, m := range medications[:numPrescriptions] {
		prescriptions = append(prescriptions, Prescription{
			Medication:       m.name,
			Dosage:           m.dosage,
			Frequency:        m.frequency,
			RefillsRemaining: rng.Intn(6),
		})
	}

	deductible := pickFloat(rng, []float64{500, 1000, 1500, 2500, 3000, 5000})
	oopMax := pickFloat(rng, []float64{3000, 5000, 6500, 8000})

	return map[string]interface{}{
		"name":                  profileName,
		"member_id":             fmt.Sprintf("MBR-%09d", rng.Intn(1000000000)),
		"date_of_birth":         now.AddDate(-(25 + rng.Intn(51)), 0, -rng.Intn(365)).Format("2006-01-02"),
		"primary_care_provider": "Dr. " + pick(rng, surnames),
		"plan_name":             pick(rng, []string{"Gold PPO", "Silver HMO", "Bronze HDHP", "Platinum PPO"}),
		"deductible":            deductible,
		"deductible_met":        roundCents(rng.Float64() * deductible),
		"out_of_pocket_max":     oopMax,
		"out_of_pocket_spent":   roundCents(rng.Float64() * oopMax * 0.6),
		"upcoming_appointments": appointments,
		"active_prescriptions":  prescriptions,
	}
}

func generateGeneric(modeName string, seed int64) map[string]interface{} {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now()

	return map[string]interface{}{
		"name":                  pick(rng, firstNames) + " " + pick(rng, surnames),
		"customer_since":        now.AddDate(-(1 + rng.Intn(5)), -rng.Intn(12), 0).Format("January 2006"),
		"account_value":         roundCents(1000 + rng.Float64()*49000),
		"recent_activity_count": 5 + rng.Intn(26),
		"loyalty_points":        100 + rng.Intn(9901),
		"status":                pick(rng, []string{"Bronze", "Silver", "Gold", "Platinum"}),
		"context_hint":          fmt.Sprintf("This is a %s customer dashboard.", modeName),
	}
}

var (
	merchants = []string{
		"Whole Foods Market", "Shell Gas Station", "Amazon Marketplace", "Starbucks Coffee",
		"Target Stores", "Netflix Subscription", "Uber Trip", "CVS Pharmacy",
		"Home Depot", "Blue Bottle Coffee", "Trader Joe's", "Costco Wholesale",
	}
	creditSources = []string{
		"Direct Deposit Payroll", "Mobile Check Deposit", "Interest Payment",
		"Zelle Transfer Received", "Tax Refund", "Cashback Reward",
	}
	surnames = []string{
		"Chen", "Rodriguez", "Patel", "Nguyen", "Okafor", "Kowalski",
		"Johansson", "Martinez", "Yamamoto", "Fitzgerald", "Silva", "Haddad",
	}
	firstNames = []string{
		"Avery", "Jordan", "Riley", "Morgan", "Casey", "Quinn",
		"Dakota", "Reese", "Skyler", "Emerson",
	}
	cities = []string{
		"Riverside", "Lakewood", "Fairview", "Oakmont", "Summit", "Brookhaven",
	}
)

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func pickFloat(rng *rand.Rand, options []float64) float64 {
	return options[rng.Intn(len(options))]
}

func letters(rng *rand.Rand, n int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

package gst

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"gstr1/internal/domain"
)

// NormalizeStrategy selects how free-text state names are normalized before lookup.
type NormalizeStrategy string

const (
	// NormalizeTitle title-cases each word ("WEST BENGAL" -> "West Bengal").
	NormalizeTitle NormalizeStrategy = "title"
	// NormalizeCaseFold lower-cases the whole name and matches case-insensitively.
	NormalizeCaseFold NormalizeStrategy = "casefold"
)

// ParseNormalizeStrategy maps a config value to a strategy.
func ParseNormalizeStrategy(s string) (NormalizeStrategy, error) {
	switch NormalizeStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case NormalizeTitle, "":
		return NormalizeTitle, nil
	case NormalizeCaseFold:
		return NormalizeCaseFold, nil
	default:
		return "", fmt.Errorf("unknown state normalization strategy %q", s)
	}
}

// jurisdictions lists the canonical GST state/UT codes.
var jurisdictions = map[string]string{
	"01": "Jammu & Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"25": "Daman & Diu",
	"26": "Dadra & Nagar Haveli & Daman & Diu",
	"27": "Maharashtra",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman & Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"97": "Other Territory",
}

// stateVariants maps title-cased name variants to their two-digit code.
// Canonical names are added by NewResolver.
var stateVariants = map[string]string{
	"Jammu And Kashmir":                            "01",
	"J&K":                                          "01",
	"Uttaranchal":                                  "05",
	"New Delhi":                                    "07",
	"Nct Of Delhi":                                 "07",
	"Delhi Nct":                                    "07",
	"Megalaya":                                     "17",
	"Orissa":                                       "21",
	"Chattisgarh":                                  "22",
	"Chhatisgarh":                                  "22",
	"Daman And Diu":                                "25",
	"The Dadra And Nagar Haveli And Daman And Diu": "26",
	"Dadra And Nagar Haveli And Daman And Diu":     "26",
	"Dadra And Nagar Haveli":                       "26",
	"Dadra & Nagar Haveli":                         "26",
	"Lakshdweep":                                   "31",
	"Pondicherry":                                  "34",
	"Andaman And Nico.In.":                         "35",
	"Andaman And Nicobar Islands":                  "35",
	"Andaman And Nicobar":                          "35",
	"Andaman & Nicobar":                            "35",
	"Telengana":                                    "36",
	"Other Territory":                              "97",
}

// Resolver maps free-text state names to canonical "NN-Name" jurisdiction codes.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	strategy NormalizeStrategy
	index    map[string]string
}

// NewResolver builds a Resolver for the given normalization strategy.
func NewResolver(strategy NormalizeStrategy) *Resolver {
	if strategy == "" {
		strategy = NormalizeTitle
	}
	r := &Resolver{strategy: strategy, index: make(map[string]string, len(stateVariants)+len(jurisdictions))}
	for code, name := range jurisdictions {
		r.index[r.normalize(name)] = Canonical(code)
	}
	for variant, code := range stateVariants {
		r.index[r.normalize(variant)] = Canonical(code)
	}
	return r
}

// Strategy returns the normalization strategy in use.
func (r *Resolver) Strategy() NormalizeStrategy { return r.strategy }

// Resolve returns the canonical "NN-Name" code for a state name, or "" when unmapped.
// Input already in canonical form resolves to itself.
func (r *Resolver) Resolve(name string) string {
	key := r.normalize(name)
	if key == "" {
		return ""
	}
	if code, ok := r.index[key]; ok {
		return code
	}
	// "NN-Name" input: the name part must itself resolve to code NN.
	if len(key) > 3 && key[2] == '-' && isDigits(key[:2]) {
		canonical := Canonical(key[:2])
		if canonical != "" && r.index[strings.TrimSpace(key[3:])] == canonical {
			return canonical
		}
	}
	return ""
}

// ByCode returns the canonical "NN-Name" string for a two-digit code, or "".
func (r *Resolver) ByCode(code string) string {
	return Canonical(code)
}

// Canonical returns "NN-Name" for a known two-digit code, or "".
func Canonical(code string) string {
	name, ok := jurisdictions[code]
	if !ok {
		return ""
	}
	return code + "-" + name
}

// Codes returns every known two-digit jurisdiction code in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(jurisdictions))
	for code := range jurisdictions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (r *Resolver) normalize(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	if r.strategy == NormalizeCaseFold {
		return strings.ToLower(collapsed)
	}
	return titleCase(collapsed)
}

// titleCase upper-cases a letter that follows a non-letter and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, ch := range s {
		isLetter := unicode.IsLetter(ch)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(ch))
		case isLetter:
			b.WriteRune(unicode.ToLower(ch))
		default:
			b.WriteRune(ch)
		}
		prevLetter = isLetter
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// UnmappedStates returns the sorted distinct customer-state texts that did not resolve.
// Blank states are not listed.
func UnmappedStates(rows []domain.TransactionRow) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range rows {
		if rows[i].JurisdictionCode != "" {
			continue
		}
		name := strings.TrimSpace(rows[i].CustomerState)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

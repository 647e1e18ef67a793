package models

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// TransactionQuery is the record sent to the scoring endpoint.
// The "transaction type" key carries a literal space; the scoring backend expects it verbatim.
type TransactionQuery struct {
	TransactionType   string `json:"transaction type"`
	TransactionStatus string `json:"transaction_status"`
	Amount            Number `json:"amount"`
	MerchantCategory  string `json:"merchant_category"`
	SenderAge         Number `json:"sender_age"`
	ReceiverAge       Number `json:"receiver_age"`
	SenderState       string `json:"sender_state"`
	SenderBank        string `json:"sender_bank"`
	ReceiverBank      string `json:"receiver_bank"`
	DeviceType        string `json:"device_type"`
	NetworkType       string `json:"network_type"`
	HourOfDay         Number `json:"hour_of_day"`
	DayOfWeek         string `json:"day_of_week"`
	IsWeekend         int    `json:"is_weekend"` // 1 when the weekend control is checked, else 0
}

// Number is a numeric field coerced from raw form text.
// Values that cannot be represented in JSON (NaN, ±Inf) are encoded as null.
type Number float64

var radixPrefixes = map[byte]int{'x': 16, 'o': 8, 'b': 2}

// ParseNumber coerces raw text the way a browser coerces a form value to a number:
// surrounding whitespace is ignored, blank text is 0, and unparsable text is NaN.
// No range checks are applied.
func ParseNumber(raw string) Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return Number(math.Inf(1))
	case "-Infinity":
		return Number(math.Inf(-1))
	}
	lower := strings.ToLower(s)
	// unsigned integer literals with a radix prefix
	if len(lower) > 2 && lower[0] == '0' {
		if base, ok := radixPrefixes[lower[1]]; ok {
			if lower[2] == '+' || lower[2] == '-' {
				return Number(math.NaN())
			}
			n, ok := new(big.Int).SetString(lower[2:], base)
			if !ok {
				return Number(math.NaN())
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return Number(f)
		}
	}
	// strconv also accepts spellings such as "inf", "nan" and "0x1p-2" that a browser rejects
	bare := strings.TrimLeft(lower, "+-")
	if strings.HasPrefix(bare, "inf") || strings.HasPrefix(bare, "nan") || strings.HasPrefix(bare, "0x") {
		return Number(math.NaN())
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// IsNaN reports whether the coercion failed
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// MarshalJSON encodes finite values as JSON numbers and everything else as null
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts a number or null (decoded as NaN)
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String formats the number the way a browser prints it
func (n Number) String() string {
	return FormatNumber(float64(n))
}

// FormatNumber prints f the way a browser converts a number to text: the shortest
// round-tripping digits, in exponent form below 1e-6 and from 1e21 up.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// strconv pads the exponent to two digits ("1e-07"); browsers do not
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

package renderers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

// Vocabulary parameterises the field description heuristic.
type Vocabulary struct {
	// Terms maps lower-case field names to fixed descriptions.
	Terms map[string]string

	Email         string
	SecretMarkers []string
	Secret        string
	BankAccount   string

	// Fallback describes scalar fields no rule matched.
	Fallback func(key string) string
}

// General is the vocabulary of the sheet style.
var General = Vocabulary{
	Terms: map[string]string{
		"company_id":          "Company identifier.",
		"user_id":             "User identifier initiating the request.",
		"module_id":           "Module identifier.",
		"user_role_id":        "Role identifier for authorization decisions.",
		"module_name":         "Human-readable module name.",
		"page_no":             "Page number for pagination (1-based).",
		"record_per_page":     "Number of records per page.",
		"force_active_status": "If '1', restrict results to active entities.",
		"employee_ids":        "List of employee identifiers to filter results.",
		"url":                 "Client page/route where the request originated.",
		"device_info":         "Information about client device and environment.",
		"device_type":         "Type of device (Desktop/Mobile/Tablet).",
		"is_mobile":           "Flag indicating mobile device (0/1).",
		"is_tablet":           "Flag indicating tablet device (0/1).",
		"is_desktop":          "Flag indicating desktop device (0/1).",
		"browser":             "Client browser name.",
		"os":                  "Operating system name.",
		"os_version":          "Operating system version.",
		"user_agent":          "Raw user-agent string.",
		"ip_address":          "Client IP address.",
		"is_vendor":           "Flag indicating vendor context (0/1).",
	},
	Email:         "User email address.",
	SecretMarkers: []string{"password", "passcode"},
	Secret:        "Secret credential; do not log.",
	BankAccount:   "Bank account number (mask for security).",
	Fallback: func(key string) string {
		return fmt.Sprintf("Field '%s'.", key)
	},
}

// Vendor is the vocabulary of the vendor style.
var Vendor = Vocabulary{
	Terms: map[string]string{
		"company_id":                "ID of the company.",
		"user_id":                   "User ID making the request.",
		"user_role_id":              "Role ID of the logged-in user.",
		"page_no":                   "Page number for pagination.",
		"record_per_page":           "Number of records per page.",
		"force_active_status":       "Filter for active status (1 = active only).",
		"employee_ids":              "List of employee IDs to filter.",
		"url":                       "Module/section reference URL.",
		"is_vendor":                 "0 = employee, 1 = vendor.",
		"module_name":               "Name of the module accessing API.",
		"module_id":                 "ID of the module.",
		"pr_no":                     "Purchase Request numbers filter.",
		"po_no":                     "Purchase Order numbers filter.",
		"irn_no":                    "IRN numbers filter.",
		"vendor_id":                 "Vendor identifiers filter.",
		"vendor_invoice_no":         "Vendor invoice number filter.",
		"vendor_invoice_date":       "Vendor invoice date filter (YYYY-MM-DD).",
		"invoice_approved_by":       "Approver user IDs filter.",
		"invoice_approved_date":     "Invoice approval date filter.",
		"gross_invoice_amount":      "Gross invoice amount filter.",
		"tds_amount":                "TDS amount filter.",
		"advance_deducted":          "Advance deducted amount filter.",
		"net_payable_amount":        "Net payable amount filter.",
		"payment_requested_by":      "Payment requesting user IDs filter.",
		"payment_entry_no":          "Payment entry number filter.",
		"payment_entry_date":        "Payment entry date filter.",
		"payment_amount":            "Payment amount filter.",
		"remaining_payment_amount":  "Remaining payment amount filter.",
		"payment_mode":              "Payment mode (e.g., NEFT/RTGS/Cheque).",
		"instrument_no":             "Instrument/cheque number.",
		"company_bank":              "Company bank name.",
		"utr_no":                    "Bank UTR number.",
		"from_amount_clearing_date": "Start date for amount clearing range.",
		"to_amount_clearing_date":   "End date for amount clearing range.",
		"payment_approval_status":   "Payment approval status filter.",
		"payment_status":            "Payment status filter.",
		"grn_approval_no":           "GRN approval number.",
		"column_list":               "Columns to include in the report output.",
		"from_payment_date":         "Start payment date range.",
		"to_payment_date":           "End payment date range.",
		"search_query":              "Free-text search query.",
		"is_excel_download":         "If '1', export as Excel instead of JSON.",
		"invoice_payment_remarks":   "Remarks filter for invoice payments.",
		"request_server_time":       "Client-side request time (for logging).",
		"device_info":               "Device/browser metadata.",
		"device_type":               "Type of device (Desktop, Mobile, etc.).",
		"is_mobile":                 "1 = mobile, 0 = not mobile.",
		"is_tablet":                 "1 = tablet, 0 = not tablet.",
		"is_desktop":                "1 = desktop, 0 = not desktop.",
		"browser":                   "Browser name (e.g., Chrome).",
		"os":                        "Operating system (e.g., Windows/Mac).",
		"os_version":                "OS version (e.g., windows-10).",
		"user_agent":                "Full user agent string.",
		"ip_address":                "Client IP address (if available).",
	},
	Email:         "Email address.",
	SecretMarkers: []string{"password"},
	Secret:        "Secret credential; never log.",
	BankAccount:   "Bank account number (mask in logs).",
	Fallback: func(string) string {
		return ""
	},
}

// Describe returns a short description of a field from its trailing key and value.
func (v Vocabulary) Describe(key string, value any) string {
	k := strings.ToLower(key)

	if desc, ok := v.Terms[k]; ok {
		return desc
	}

	switch {
	case strings.Contains(k, "email"):
		return v.Email
	case strings.HasSuffix(k, "_id") || k == "id":
		return "Unique identifier."
	case strings.Contains(k, "phone") || strings.Contains(k, "mobile"):
		return "Phone number."
	case strings.Contains(k, "name"):
		return "Descriptive name."
	case containsAny(k, v.SecretMarkers):
		return v.Secret
	case strings.Contains(k, "gst"):
		return "GST identification number."
	case strings.Contains(k, "pan"):
		return "PAN number."
	case strings.Contains(k, "account") && strings.Contains(k, "number"):
		return v.BankAccount
	case strings.Contains(k, "currency"):
		return "Currency code (e.g., INR, USD)."
	}

	switch value.(type) {
	case []any:
		return "List of values."
	case jsonval.Object:
		return "Nested object."
	}

	return v.Fallback(key)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}

// inferType names the type of an example value for field tables.
func inferType(value any) string {
	switch val := value.(type) {
	case bool:
		return "Boolean"
	case json.Number, int, int64, float64:
		return "Number"
	case []any:
		inner := "Any"
		if len(val) > 0 {
			inner = inferType(val[0])
		}

		return "Array<" + inner + ">"
	case jsonval.Object:
		return "Object"
	default:
		return "String"
	}
}

// field is one row of a flattened request body.
type field struct {
	Name        string
	Type        string
	Description string
}

// flatten walks value depth first. Objects contribute dot-joined paths, lists a row of
// their own plus the rows of their first element under a "[]" suffixed path.
func flatten(vocab Vocabulary, prefix string, value any, out *[]field) {
	switch val := value.(type) {
	case jsonval.Object:
		for _, m := range val {
			name := m.Key
			if prefix != "" {
				name = prefix + "." + m.Key
			}
			flatten(vocab, name, m.Value, out)
		}
	case []any:
		*out = append(*out, field{Name: prefix, Type: inferType(val), Description: vocab.Describe(lastSegment(prefix), val)})

		if len(val) > 0 && jsonval.IsContainer(val[0]) {
			flatten(vocab, prefix+"[]", val[0], out)
		}
	default:
		*out = append(*out, field{Name: prefix, Type: inferType(val), Description: vocab.Describe(lastSegment(prefix), val)})
	}
}

func flattenFields(vocab Vocabulary, example any) []field {
	var fields []field
	flatten(vocab, "", example, &fields)

	return fields
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}

	return name
}

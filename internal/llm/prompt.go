package llm

import (
	"sort"
	"strings"
)

// BuildSystemPrompt composes the mapping instructions: the full field
// vocabulary, per-group semantics, formatting rules, and the JSON-only
// output constraint.
func BuildSystemPrompt(fieldNames []string) string {
	parts := []string{
		"You are an expert in IRS Form W-7 (Application for IRS Individual Taxpayer Identification Number).",
		"Your task is to map client data from spreadsheet columns to the appropriate W-7 form fields.",
		"Available form fields: " + strings.Join(fieldNames, ", ") + ".",

		// Identity and address fields
		"first_name, middle_name, last_name: current legal name.",
		"first_name_birth, middle_name_birth, last_name_birth: name at birth if different.",
		"mailing_address: street address (e.g., \"123 Main St, Apt 5\").",
		"mailing_city_state_zip: city, state, ZIP and country (e.g., \"Austin, TX 78701, USA\").",
		"foreign_address and foreign_city_state_country: foreign street address and city/state/country.",
		"date_of_birth: format as 8 digits MMDDYYYY (e.g., \"03151985\").",
		"country_of_birth, city_state_birth: where the person was born.",
		"country_of_citizenship: citizenship country. foreign_tax_id: foreign tax identification number.",
		"phone_number: contact phone number.",

		// Choice groups: exactly one flag true per group
		"Set gender_male or gender_female to true based on gender, never both.",
		"Application type (choose one): application_type_new for a new ITIN, application_type_renew for a renewal.",
		"Reason for application (choose one): reason_a treaty benefit; reason_b nonresident alien filing a U.S. tax return; " +
			"reason_c U.S. resident alien filing a tax return; reason_d dependent of U.S. citizen/resident alien; " +
			"reason_e spouse of U.S. citizen/resident alien; reason_f nonresident alien student/professor/researcher; " +
			"reason_g dependent/spouse of a nonresident alien; reason_h other (describe in reason_h_other).",
		"ID document type (choose one): id_passport, id_drivers_license, id_uscis, or id_other (name it in id_other_type).",
		"Document details go in doc_issued_by, doc_number, doc_expiration; U.S. entry date in date_of_entry.",

		// Prior identifier handling
		"Previous ITIN/IRSN: set previous_itin_yes true if the person has previously received an ITIN or IRSN, otherwise set previous_itin_no true.",
		"Look for any column containing ITIN, tax_id, previous_itin, or similar. A previous ITIN is 9 digits, typically XXX-XX-XXXX.",
		"If found, split it into previous_itin_first_3 (3 digits), previous_itin_middle_2 (2 digits), previous_itin_last_3 (4 digits), " +
			"set previous_itin_yes = true and previous_itin_no = false, and fill previous_itin_name_first/middle/last with the name it was issued under.",
		"If no ITIN is found or the field is empty, set previous_itin_no = true and previous_itin_yes = false.",
		"IRSN parts, if applicable, go in previous_irsn_first_3, previous_irsn_middle_2, previous_irsn_last_3.",

		// Institutional affiliation
		"For students and researchers fill college_company_name, college_company_city_state, and length_of_stay (e.g., \"2 years\").",

		// Output contract
		"Text fields take string values; choice flags take boolean values.",
		"Never output null. If a field is not present in the data, omit it.",
		"CRITICAL: your response must contain ONLY a valid JSON object. No explanatory text, no markdown formatting, no commentary.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt serializes the row as a key/value listing, sorted by key
// so the payload is deterministic.
func BuildUserPrompt(row map[string]string) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Map this client data to W-7 form fields:\n")
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(row[k])
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with ONLY a JSON object keyed by the available form field names.")
	return b.String()
}

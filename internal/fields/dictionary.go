// Package fields holds the static dictionary that ties semantic field names
// to the widget identifiers of the IRS Form W-7 PDF template. The PDF names
// are opaque, template-assigned strings; nothing outside this package should
// hard-code them.
package fields

import "sort"

// Kind distinguishes text widgets from checkbox widgets on the template.
type Kind int

const (
	Text Kind = iota
	Checkbox
)

// Entry describes one mapped form field.
type Entry struct {
	PDFName string
	Kind    Kind
}

const page1 = "topmostSubform[0].Page1[0]."

var dictionary = map[string]Entry{
	// Application type
	"application_type_new":   {page1 + "c1_1[0]", Checkbox},
	"application_type_renew": {page1 + "c1_1[1]", Checkbox},

	// Reason codes, mutually exclusive
	"reason_a": {page1 + "c1_2[0]", Checkbox}, // treaty benefit
	"reason_b": {page1 + "c1_3[0]", Checkbox}, // nonresident alien filing tax return
	"reason_c": {page1 + "c1_4[0]", Checkbox}, // U.S. resident alien
	"reason_d": {page1 + "c1_5[0]", Checkbox}, // dependent
	"reason_e": {page1 + "c1_6[0]", Checkbox}, // spouse
	"reason_f": {page1 + "c1_7[0]", Checkbox}, // student/professor/researcher
	"reason_g": {page1 + "c1_8[0]", Checkbox}, // dependent/spouse of nonresident
	"reason_h": {page1 + "c1_9[0]", Checkbox}, // other

	// Additional reason fields
	"reason_d_relationship": {page1 + "f1_01[0]", Text},
	"reason_de_name1":       {page1 + "f1_02[0]", Text},
	"reason_de_name2":       {page1 + "f1_03[0]", Text},
	"reason_h_other":        {page1 + "f1_04[0]", Text},
	"treaty_country1":       {page1 + "f1_05[0]", Text},
	"treaty_country2":       {page1 + "f1_06[0]", Text},

	// Current legal name
	"first_name":  {page1 + "f1_07[0]", Text},
	"middle_name": {page1 + "f1_08[0]", Text},
	"last_name":   {page1 + "f1_09[0]", Text},

	// Name at birth, if different
	"first_name_birth":  {page1 + "f1_10[0]", Text},
	"middle_name_birth": {page1 + "f1_11[0]", Text},
	"last_name_birth":   {page1 + "f1_12[0]", Text},

	// Addresses
	"mailing_address":            {page1 + "f1_13[0]", Text},
	"mailing_city_state_zip":     {page1 + "f1_14[0]", Text},
	"foreign_address":            {page1 + "f1_15[0]", Text},
	"foreign_city_state_country": {page1 + "f1_16[0]", Text},

	// Birth information
	"date_of_birth":    {page1 + "Line4_ReadOrder[0].f1_17[0]", Text},
	"country_of_birth": {page1 + "f1_18[0]", Text},
	"city_state_birth": {page1 + "f1_19[0]", Text},

	// Gender
	"gender_male":   {page1 + "c1_10[0]", Checkbox},
	"gender_female": {page1 + "c1_10[1]", Checkbox},

	// Other information
	"country_of_citizenship": {page1 + "f1_20[0]", Text},
	"foreign_tax_id":         {page1 + "f1_21[0]", Text},
	"visa_info":              {page1 + "f1_22[0]", Text},

	// ID documents
	"id_passport":        {page1 + "c1_11[0]", Checkbox},
	"id_drivers_license": {page1 + "c1_11[1]", Checkbox},
	"id_uscis":           {page1 + "c1_11[2]", Checkbox},
	"id_other":           {page1 + "c1_11[3]", Checkbox},
	"id_other_type":      {page1 + "f1_23[0]", Text},

	// Document details
	"doc_issued_by":  {page1 + "Issued_ReadOrder[0].f1_24[0]", Text},
	"doc_number":     {page1 + "Issued_ReadOrder[0].f1_25[0]", Text},
	"doc_expiration": {page1 + "Issued_ReadOrder[0].f1_26[0]", Text},
	"date_of_entry":  {page1 + "f1_27[0]", Text},

	// 6e: previous ITIN question
	"previous_itin_no":  {page1 + "c1_12[0]", Checkbox},
	"previous_itin_yes": {page1 + "c1_12[1]", Checkbox},

	// 6f: previous ITIN/IRSN details
	"previous_itin_first_3":    {page1 + "ITIN[0].f1_28[0]", Text},
	"previous_itin_middle_2":   {page1 + "ITIN[0].f1_29[0]", Text},
	"previous_itin_last_3":     {page1 + "ITIN[0].f1_30[0]", Text},
	"previous_irsn_first_3":    {page1 + "IRSN[0].f1_31[0]", Text},
	"previous_irsn_middle_2":   {page1 + "IRSN[0].f1_32[0]", Text},
	"previous_irsn_last_3":     {page1 + "IRSN[0].f1_33[0]", Text},
	"previous_itin_name_first":  {page1 + "f1_34[0]", Text},
	"previous_itin_name_middle": {page1 + "f1_35[0]", Text},
	"previous_itin_name_last":   {page1 + "f1_36[0]", Text},

	// 6g: college/university or company
	"college_company_name":       {page1 + "f1_37[0]", Text},
	"college_company_city_state": {page1 + "f1_38[0]", Text},
	"length_of_stay":             {page1 + "f1_39[0]", Text},

	// Contact and signature section
	"phone_number":            {page1 + "f1_40[0]", Text},
	"delegate_name":           {page1 + "f1_41[0]", Text},
	"delegate_parent":         {page1 + "c1_13[0]", Checkbox},
	"delegate_power_attorney": {page1 + "c1_13[1]", Checkbox},
	"delegate_court_guardian": {page1 + "c1_13[2]", Checkbox},

	// Acceptance agent section
	"agent_phone":       {page1 + "f1_42[0]", Text},
	"agent_fax":         {page1 + "f1_43[0]", Text},
	"agent_name_title":  {page1 + "f1_44[0]", Text},
	"agent_company":     {page1 + "f1_45[0]", Text},
	"agent_ein":         {page1 + "f1_46[0]", Text},
	"agent_ptin":        {page1 + "f1_47[0]", Text},
	"agent_office_code": {page1 + "f1_48[0]", Text},
}

// Resolve returns the entry for a semantic field name.
func Resolve(name string) (Entry, bool) {
	e, ok := dictionary[name]
	return e, ok
}

// Names returns every semantic field name, sorted.
func Names() []string {
	out := make([]string, 0, len(dictionary))
	for name := range dictionary {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of dictionary entries.
func Count() int {
	return len(dictionary)
}

// Sample returns up to n name -> PDF identifier pairs for introspection.
func Sample(n int) map[string]string {
	out := make(map[string]string, n)
	for _, name := range Names() {
		if len(out) >= n {
			break
		}
		out[name] = dictionary[name].PDFName
	}
	return out
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"regexp"
	"sort"
	"strings"
)

// labelTypes maps normalized field labels to the entity type of the value
// that follows them. EntityNone entries are labels we recognize so their
// values can be skipped deliberately.
var labelTypes = map[string]EntityType{
	// Names
	"NAME":              EntityName,
	"PATIENT":           EntityNamePatient,
	"PATIENT NAME":      EntityNamePatient,
	"MEMBER":            EntityName,
	"MEMBER NAME":       EntityName,
	"SUBSCRIBER":        EntityName,
	"SUBSCRIBER NAME":   EntityName,
	"INSURED":           EntityName,
	"INSURED NAME":      EntityName,
	"CARDHOLDER":        EntityName,
	"BENEFICIARY":       EntityName,
	"BENEFICIARY NAME":  EntityName,
	"DEPENDENT":         EntityName,
	"DEPENDENT NAME":    EntityName,
	"FN":                EntityName,
	"LN":                EntityName,
	"FIRST NAME":        EntityName,
	"LAST NAME":         EntityName,
	"MIDDLE NAME":       EntityName,
	"FULL NAME":         EntityName,
	"LEGAL NAME":        EntityName,
	"MAIDEN NAME":       EntityName,
	"PROVIDER":          EntityNameProvider,
	"PROVIDER NAME":     EntityNameProvider,
	"PHYSICIAN":         EntityNameProvider,
	"DOCTOR":            EntityNameProvider,
	"DR":                EntityNameProvider,
	"PRESCRIBER":        EntityNameProvider,
	"ORDERING":          EntityNameProvider,
	"ATTENDING":         EntityNameProvider,
	"PCP":               EntityNameProvider,
	"PRIMARY CARE":      EntityNameProvider,
	"EMPLOYER":          EntityName,
	"EMPLOYER NAME":     EntityName,
	"EMERGENCY CONTACT": EntityName,
	"CONTACT NAME":      EntityName,
	"GUARDIAN":          EntityName,
	"PARENT":            EntityName,
	"SPOUSE":            EntityName,

	// Dates
	"DOB":             EntityDateDOB,
	"BIRTH":           EntityDateDOB,
	"BIRTHDATE":       EntityDateDOB,
	"DATE OF BIRTH":   EntityDateDOB,
	"BORN":            EntityDateDOB,
	"BD":              EntityDateDOB,
	"BDAY":            EntityDateDOB,
	"EXP":             EntityDate,
	"EXPIRATION":      EntityDate,
	"EXPIRY":          EntityDate,
	"EXPIRES":         EntityDate,
	"EXPIRATION DATE": EntityDate,
	"VALID THRU":      EntityDate,
	"VALID THROUGH":   EntityDate,
	"ISS":             EntityDate,
	"ISSUED":          EntityDate,
	"ISSUE DATE":      EntityDate,
	"DATE ISSUED":     EntityDate,
	"EFFECTIVE":       EntityDate,
	"EFFECTIVE DATE":  EntityDate,
	"EFF DATE":        EntityDate,
	"START DATE":      EntityDate,
	"ADMIT":           EntityDate,
	"ADMIT DATE":      EntityDate,
	"ADMISSION":       EntityDate,
	"ADMISSION DATE":  EntityDate,
	"DISCHARGE":       EntityDate,
	"DISCHARGE DATE":  EntityDate,
	"DOS":             EntityDate,
	"DATE OF SERVICE": EntityDate,
	"SERVICE DATE":    EntityDate,
	"PROCEDURE DATE":  EntityDate,
	"COLLECTION DATE": EntityDate,
	"SPECIMEN DATE":   EntityDate,
	"RESULT DATE":     EntityDate,
	"REPORT DATE":     EntityDate,
	"VISIT DATE":      EntityDate,
	"APPOINTMENT":     EntityDate,
	"SCHEDULED":       EntityDate,

	// Government/Official IDs
	"DL":               EntityDriverLicense,
	"DLN":              EntityDriverLicense,
	"LICENSE":          EntityDriverLicense,
	"LICENSE NO":       EntityDriverLicense,
	"LICENSE NUM":      EntityDriverLicense,
	"LICENSE NUMBER":   EntityDriverLicense,
	"DRIVER LICENSE":   EntityDriverLicense,
	"DRIVERS LICENSE":  EntityDriverLicense,
	"DRIVER'S LICENSE": EntityDriverLicense,
	"DRIVING LICENSE":  EntityDriverLicense,
	"CDL":              EntityDriverLicense,
	"SSN":              EntitySSN,
	"SS":               EntitySSN,
	"SS#":              EntitySSN,
	"SSN#":             EntitySSN,
	"SOCIAL":           EntitySSN,
	"SOCIAL SECURITY":  EntitySSN,
	"SOC SEC":          EntitySSN,
	"PASSPORT":         EntityPassport,
	"PASSPORT NO":      EntityPassport,
	"PASSPORT NUMBER":  EntityPassport,

	// Medical Record IDs
	"MRN":                   EntityMRN,
	"MR#":                   EntityMRN,
	"MRN#":                  EntityMRN,
	"MEDICAL RECORD":        EntityMRN,
	"MEDICAL RECORD #":      EntityMRN,
	"MEDICAL RECORD NO":     EntityMRN,
	"MEDICAL RECORD NUMBER": EntityMRN,
	"MED REC":               EntityMRN,
	"PATIENT ID":            EntityMRN,
	"PATIENT NO":            EntityMRN,
	"PATIENT NUMBER":        EntityMRN,
	"PT ID":                 EntityMRN,
	"CHART":                 EntityMRN,
	"CHART NO":              EntityMRN,
	"CHART NUMBER":          EntityMRN,
	"ENCOUNTER":             EntityEncounterID,
	"ENCOUNTER ID":          EntityEncounterID,
	"ENCOUNTER NO":          EntityEncounterID,
	"VISIT ID":              EntityEncounterID,
	"VISIT NO":              EntityEncounterID,
	"ACCESSION":             EntityAccessionID,
	"ACCESSION NO":          EntityAccessionID,
	"ACCESSION NUMBER":      EntityAccessionID,
	"ACC":                   EntityAccessionID,
	"ACC#":                  EntityAccessionID,
	"SPECIMEN ID":           EntityAccessionID,
	"CASE NO":               EntityAccessionID,
	"CASE NUMBER":           EntityAccessionID,
	"REQ":                   EntityAccessionID,
	"REQUISITION":           EntityAccessionID,

	// Insurance/Health Plan IDs
	"MEMBER ID":         EntityHealthPlanID,
	"MEMBER NO":         EntityHealthPlanID,
	"MEMBER NUMBER":     EntityHealthPlanID,
	"MEMBER#":           EntityHealthPlanID,
	"SUBSCRIBER ID":     EntityHealthPlanID,
	"SUBSCRIBER NO":     EntityHealthPlanID,
	"SUBSCRIBER NUMBER": EntityHealthPlanID,
	"GROUP":             EntityHealthPlanID,
	"GROUP ID":          EntityHealthPlanID,
	"GROUP NO":          EntityHealthPlanID,
	"GROUP NUMBER":      EntityHealthPlanID,
	"GRP":               EntityHealthPlanID,
	"POLICY":            EntityHealthPlanID,
	"POLICY NO":         EntityHealthPlanID,
	"POLICY NUMBER":     EntityHealthPlanID,
	"PLAN ID":           EntityHealthPlanID,
	"PLAN NO":           EntityHealthPlanID,
	"INSURANCE ID":      EntityHealthPlanID,
	"INSURER ID":        EntityHealthPlanID,
	"PAYER ID":          EntityHealthPlanID,
	"CARRIER ID":        EntityHealthPlanID,
	"CONTRACT":          EntityHealthPlanID,
	"CONTRACT NO":       EntityHealthPlanID,
	"CERT":              EntityHealthPlanID,
	"CERT NO":           EntityHealthPlanID,
	"CERTIFICATE":       EntityHealthPlanID,
	"CERTIFICATE NO":    EntityHealthPlanID,
	"RX BIN":            EntityHealthPlanID,
	"BIN":               EntityHealthPlanID,
	"PCN":               EntityHealthPlanID,
	"RX PCN":            EntityHealthPlanID,
	"RX GRP":            EntityHealthPlanID,
	"RX GROUP":          EntityHealthPlanID,
	"MEDICARE":          EntityMedicareID,
	"MEDICARE ID":       EntityMedicareID,
	"MEDICARE NO":       EntityMedicareID,
	"MEDICARE NUMBER":   EntityMedicareID,
	"HICN":              EntityMedicareID,
	"MBI":               EntityMedicareID,
	"MEDICAID":          EntityHealthPlanID,
	"MEDICAID ID":       EntityHealthPlanID,
	"MEDICAID NO":       EntityHealthPlanID,

	// Financial/Account IDs
	"ACCOUNT":        EntityAccountNumber,
	"ACCT":           EntityAccountNumber,
	"ACCT NO":        EntityAccountNumber,
	"ACCOUNT NO":     EntityAccountNumber,
	"ACCOUNT NUMBER": EntityAccountNumber,
	"ACCOUNT#":       EntityAccountNumber,
	"FIN":            EntityAccountNumber,
	"GUARANTOR":      EntityAccountNumber,
	"BILLING":        EntityAccountNumber,
	"INVOICE":        EntityAccountNumber,

	// Generic IDs (lower confidence fallback)
	"ID":           EntityIDNumber,
	"ID NO":        EntityIDNumber,
	"ID NUMBER":    EntityIDNumber,
	"ID#":          EntityIDNumber,
	"NO":           EntityIDNumber,
	"NUM":          EntityIDNumber,
	"NUMBER":       EntityIDNumber,
	"#":            EntityIDNumber,
	"REF":          EntityIDNumber,
	"REF NO":       EntityIDNumber,
	"REFERENCE":    EntityIDNumber,
	"REFERENCE NO": EntityIDNumber,
	"DD":           EntityDocumentID,
	"DCN":          EntityDocumentID,
	"DOC":          EntityDocumentID,
	"DOC NO":       EntityDocumentID,
	"DOCUMENT":     EntityDocumentID,
	"DOCUMENT NO":  EntityDocumentID,

	// Address Components
	"ADDR":            EntityAddress,
	"ADDRESS":         EntityAddress,
	"STREET":          EntityAddress,
	"STREET ADDRESS":  EntityAddress,
	"MAILING":         EntityAddress,
	"MAILING ADDRESS": EntityAddress,
	"HOME":            EntityAddress,
	"HOME ADDRESS":    EntityAddress,
	"RESIDENCE":       EntityAddress,
	"RESIDENTIAL":     EntityAddress,
	"CITY":            EntityAddress,
	"STATE":           EntityAddress,
	"ZIP":             EntityZip,
	"ZIP CODE":        EntityZip,
	"ZIPCODE":         EntityZip,
	"POSTAL":          EntityZip,
	"POSTAL CODE":     EntityZip,

	// Contact Information
	"PHONE":           EntityPhone,
	"PH":              EntityPhone,
	"TEL":             EntityPhone,
	"TELEPHONE":       EntityPhone,
	"CELL":            EntityPhone,
	"MOBILE":          EntityPhone,
	"HOME PHONE":      EntityPhone,
	"WORK PHONE":      EntityPhone,
	"CONTACT":         EntityPhone,
	"FAX":             EntityFax,
	"FACSIMILE":       EntityFax,
	"EMAIL":           EntityEmail,
	"E-MAIL":          EntityEmail,
	"ELECTRONIC MAIL": EntityEmail,

	// Network identifiers
	"IP":          EntityIPAddress,
	"IP ADDRESS":  EntityIPAddress,
	"IP ADDR":     EntityIPAddress,
	"CLIENT IP":   EntityIPAddress,
	"PATIENT IP":  EntityIPAddress,
	"SOURCE IP":   EntityIPAddress,
	"MAC":         EntityMACAddress,
	"MAC ADDRESS": EntityMACAddress,
	"MAC ADDR":    EntityMACAddress,

	// Device Identifiers (medical devices, serial numbers)
	"SERIAL":            EntityDeviceID,
	"SERIAL NO":         EntityDeviceID,
	"SERIAL NUMBER":     EntityDeviceID,
	"SN":                EntityDeviceID,
	"S/N":               EntityDeviceID,
	"UDI":               EntityDeviceID,
	"DEVICE ID":         EntityDeviceID,
	"DEVICE IDENTIFIER": EntityDeviceID,
	"MODEL NUMBER":      EntityDeviceID,
	"MODEL NO":          EntityDeviceID,
	"LOT":               EntityDeviceID,
	"LOT NO":            EntityDeviceID,
	"LOT NUMBER":        EntityDeviceID,

	// Vehicle Identifiers
	"LICENSE PLATE":          EntityLicensePlate,
	"PLATE":                  EntityLicensePlate,
	"PLATE NO":               EntityLicensePlate,
	"PLATE NUMBER":           EntityLicensePlate,
	"TAG":                    EntityLicensePlate,
	"TAG NO":                 EntityLicensePlate,
	"TAG NUMBER":             EntityLicensePlate,
	"VEHICLE PLATE":          EntityLicensePlate,
	"VIN":                    EntityVIN,
	"VEHICLE ID":             EntityVIN,
	"VEHICLE IDENTIFICATION": EntityVIN,

	// Provider/Facility IDs
	"NPI":               EntityNPI,
	"NPI NO":            EntityNPI,
	"NPI NUMBER":        EntityNPI,
	"NATIONAL PROVIDER": EntityNPI,
	"DEA":               EntityDEA,
	"DEA NO":            EntityDEA,
	"DEA NUMBER":        EntityDEA,
	"TAX ID":            EntityNPI,
	"TIN":               EntityNPI,
	"FACILITY":          EntityFacility,
	"FACILITY ID":       EntityFacility,
	"LOCATION":          EntityFacility,
	"SITE":              EntityFacility,
	"CLINIC":            EntityFacility,
	"HOSPITAL":          EntityFacility,

	// Physical Descriptors (for ID documents)
	"HGT":        EntityPhysicalDesc,
	"HEIGHT":     EntityPhysicalDesc,
	"HT":         EntityPhysicalDesc,
	"WGT":        EntityPhysicalDesc,
	"WEIGHT":     EntityPhysicalDesc,
	"WT":         EntityPhysicalDesc,
	"EYES":       EntityPhysicalDesc,
	"EYE":        EntityPhysicalDesc,
	"EYE COLOR":  EntityPhysicalDesc,
	"HAIR":       EntityPhysicalDesc,
	"HAIR COLOR": EntityPhysicalDesc,
	"SEX":        EntityPhysicalDesc,
	"GENDER":     EntityPhysicalDesc,
	"RACE":       EntityPhysicalDesc,
	"ETHNICITY":  EntityPhysicalDesc,

	// Non-PHI Labels (recognized but not redacted)
	"CLASS":         EntityNone,
	"VEHICLE CLASS": EntityNone,
	"RESTR":         EntityNone,
	"RESTRICTIONS":  EntityNone,
	"REST":          EntityNone,
	"END":           EntityNone,
	"ENDORSEMENTS":  EntityNone,
	"ENDORSE":       EntityNone,
	"ORGAN DONOR":   EntityNone,
	"DONOR":         EntityNone,
	"VETERAN":       EntityNone,
	"VET":           EntityNone,
	"DUPS":          EntityNone,
	"DUPLICATES":    EntityNone,
	"REAL ID":       EntityNone,
	"TYPE":          EntityNone,
	"CARD TYPE":     EntityNone,
	"PLAN TYPE":     EntityNone,
	"COPAY":         EntityNone,
	"CO-PAY":        EntityNone,
	"DEDUCTIBLE":    EntityNone,
	"COINSURANCE":   EntityNone,
	"STATUS":        EntityNone,
	"ACTIVE":        EntityNone,
	"RX":            EntityNone,
	"PHARMACY":      EntityNone,
	"INSTRUCTIONS":  EntityNone,
	"DIRECTIONS":    EntityNone,
	"SIG":           EntityNone,
	"QTY":           EntityNone,
	"QUANTITY":      EntityNone,
	"REFILLS":       EntityNone,
	"DAYS SUPPLY":   EntityNone,}

var (
	trailingPunct = regexp.MustCompile(`[:\-\s]+$`)
	innerSpace    = regexp.MustCompile(`\s+`)
)

// sortedLabels holds every label, longest first. Ties are broken
// alphabetically so iteration order is stable between runs.
var sortedLabels = func() []string {
	out := make([]string, 0, len(labelTypes))
	for label := range labelTypes {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// Normalize upper-cases a raw label, trims it, drops trailing colons, dashes
// and whitespace, and collapses inner whitespace runs to one space.
func Normalize(label string) string {
	n := strings.TrimSpace(strings.ToUpper(label))
	n = trailingPunct.ReplaceAllString(n, "")
	return innerSpace.ReplaceAllString(n, " ")
}

// Lookup resolves a label to its entity type. The label is normalized first,
// so "dob:", "DOB :" and "Dob" resolve identically. The boolean is false when
// the label is not part of the taxonomy at all.
func Lookup(label string) (EntityType, bool) {
	t, ok := labelTypes[Normalize(label)]
	return t, ok
}

// Known reports whether an already normalized label is in the taxonomy.
func Known(normalized string) bool {
	_, ok := labelTypes[normalized]
	return ok
}

// SortedLabels returns all labels ordered by length, longest first.
// The returned slice is a copy.
func SortedLabels() []string {
	out := make([]string, len(sortedLabels))
	copy(out, sortedLabels)
	return out
}

// Entry is one row of the taxonomy.
type Entry struct {
	Label string     `json:"label" yaml:"label"`
	Type  EntityType `json:"-" yaml:"-"`
}

// Entries returns the taxonomy rows in SortedLabels order.
func Entries() []Entry {
	out := make([]Entry, 0, len(sortedLabels))
	for _, label := range sortedLabels {
		out = append(out, Entry{Label: label, Type: labelTypes[label]})
	}
	return out
}

// Len returns the number of labels in the taxonomy.
func Len() int {
	return len(labelTypes)
}

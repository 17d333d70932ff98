// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package taxonomy

import "fmt"

// EntityType identifies the kind of sensitive value a field label announces.
// The zero value, EntityNone, marks a label that is recognized but whose
// value is not sensitive.
type EntityType int

const (
	EntityNone EntityType = iota
	EntityName
	EntityNamePatient
	EntityNameProvider
	EntityDateDOB
	EntityDate
	EntityDriverLicense
	EntitySSN
	EntityPassport
	EntityMRN
	EntityEncounterID
	EntityAccessionID
	EntityHealthPlanID
	EntityMedicareID
	EntityAccountNumber
	EntityIDNumber
	EntityDocumentID
	EntityAddress
	EntityZip
	EntityPhone
	EntityFax
	EntityEmail
	EntityIPAddress
	EntityMACAddress
	EntityDeviceID
	EntityLicensePlate
	EntityVIN
	EntityNPI
	EntityDEA
	EntityFacility
	EntityPhysicalDesc

	entityTypeCount
)

// EntityTypeCount is the number of EntityType values including EntityNone.
// Tables indexed by EntityType use it as their length.
const EntityTypeCount = int(entityTypeCount)

var entityNames = [entityTypeCount]string{
	EntityNone:          "NONE",
	EntityName:          "NAME",
	EntityNamePatient:   "NAME_PATIENT",
	EntityNameProvider:  "NAME_PROVIDER",
	EntityDateDOB:       "DATE_DOB",
	EntityDate:          "DATE",
	EntityDriverLicense: "DRIVER_LICENSE",
	EntitySSN:           "SSN",
	EntityPassport:      "PASSPORT",
	EntityMRN:           "MRN",
	EntityEncounterID:   "ENCOUNTER_ID",
	EntityAccessionID:   "ACCESSION_ID",
	EntityHealthPlanID:  "HEALTH_PLAN_ID",
	EntityMedicareID:    "MEDICARE_ID",
	EntityAccountNumber: "ACCOUNT_NUMBER",
	EntityIDNumber:      "ID_NUMBER",
	EntityDocumentID:    "DOCUMENT_ID",
	EntityAddress:       "ADDRESS",
	EntityZip:           "ZIP",
	EntityPhone:         "PHONE",
	EntityFax:           "FAX",
	EntityEmail:         "EMAIL",
	EntityIPAddress:     "IP_ADDRESS",
	EntityMACAddress:    "MAC_ADDRESS",
	EntityDeviceID:      "DEVICE_ID",
	EntityLicensePlate:  "LICENSE_PLATE",
	EntityVIN:           "VIN",
	EntityNPI:           "NPI",
	EntityDEA:           "DEA",
	EntityFacility:      "FACILITY",
	EntityPhysicalDesc:  "PHYSICAL_DESC",
}

var entityByName = func() map[string]EntityType {
	m := make(map[string]EntityType, len(entityNames))
	for i, name := range entityNames {
		m[name] = EntityType(i)
	}
	return m
}()

// String returns the upper snake case tag used in results, e.g. "DATE_DOB".
func (e EntityType) String() string {
	if !e.Valid() {
		return fmt.Sprintf("EntityType(%d)", int(e))
	}
	return entityNames[e]
}

// Valid reports whether e is one of the declared values.
func (e EntityType) Valid() bool {
	return e >= EntityNone && e < entityTypeCount
}

// Sensitive reports whether values announced by this type should be extracted.
func (e EntityType) Sensitive() bool {
	return e != EntityNone && e.Valid()
}

// IsName reports whether e is one of the person-name types.
func (e EntityType) IsName() bool {
	return e == EntityName || e == EntityNamePatient || e == EntityNameProvider
}

// IsDate reports whether e is one of the date types.
func (e EntityType) IsDate() bool {
	return e == EntityDate || e == EntityDateDOB
}

// ParseEntityType is the inverse of String. Matching is case sensitive.
func ParseEntityType(s string) (EntityType, error) {
	if e, ok := entityByName[s]; ok {
		return e, nil
	}
	return EntityNone, fmt.Errorf("unknown entity type %q", s)
}

// Types returns every sensitive entity type in declaration order.
func Types() []EntityType {
	out := make([]EntityType, 0, EntityTypeCount-1)
	for e := EntityNone + 1; e < entityTypeCount; e++ {
		out = append(out, e)
	}
	return out
}

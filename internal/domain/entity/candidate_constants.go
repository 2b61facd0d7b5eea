package entity

// DocumentStatus is the lifecycle status of a candidate document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "Pending"
	DocumentStatusReceived DocumentStatus = "Received"
	DocumentStatusSent     DocumentStatus = "Sent"
	DocumentStatusAttested DocumentStatus = "Attested"
	DocumentStatusOnHand   DocumentStatus = "OnHand"
)

// IsValid returns true for known document statuses
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusReceived, DocumentStatusSent,
		DocumentStatusAttested, DocumentStatusOnHand:
		return true
	}
	return false
}

// CollectionMethod records how a physical document reached the office
type CollectionMethod string

const (
	CollectionNotCollected CollectionMethod = "NotCollected"
	CollectionCourier      CollectionMethod = "Courier"
	CollectionWhatsApp     CollectionMethod = "WhatsApp"
	CollectionDirect       CollectionMethod = "Direct"
)

// IsValid returns true for known collection methods
func (m CollectionMethod) IsValid() bool {
	switch m {
	case CollectionNotCollected, CollectionCourier, CollectionWhatsApp, CollectionDirect:
		return true
	}
	return false
}

// DiplomaVerification tracks a diploma through board, MOFA and embassy attestation
type DiplomaVerification string

const (
	VerificationNone                DiplomaVerification = "None"
	VerificationSentToBoard         DiplomaVerification = "SentToBoard"
	VerificationReceivedFromBoard   DiplomaVerification = "ReceivedFromBoard"
	VerificationSentToMOFA          DiplomaVerification = "SentToMOFA"
	VerificationReceivedFromMOFA    DiplomaVerification = "ReceivedFromMOFA"
	VerificationSentToEmbassy       DiplomaVerification = "SentToEmbassy"
	VerificationReceivedFromEmbassy DiplomaVerification = "ReceivedFromEmbassy"
)

// IsValid returns true for known verification sub-statuses
func (v DiplomaVerification) IsValid() bool {
	switch v {
	case VerificationNone, VerificationSentToBoard, VerificationReceivedFromBoard,
		VerificationSentToMOFA, VerificationReceivedFromMOFA, VerificationSentToEmbassy,
		VerificationReceivedFromEmbassy:
		return true
	}
	return false
}

// MedicalStatus is the outcome of the candidate's medical examination
type MedicalStatus string

const (
	MedicalFit      MedicalStatus = "Fit"
	MedicalUnfit    MedicalStatus = "Unfit"
	MedicalSlipSent MedicalStatus = "SlipSent"
	MedicalNoSlip   MedicalStatus = "NoSlip"
)

// IsValid returns true for known medical statuses
func (m MedicalStatus) IsValid() bool {
	switch m {
	case MedicalFit, MedicalUnfit, MedicalSlipSent, MedicalNoSlip:
		return true
	}
	return false
}

// CustomerType classifies a candidate at intake
type CustomerType string

const (
	CustomerFresh     CustomerType = "Fresh"
	CustomerReturn    CustomerType = "Return"
	CustomerInProcess CustomerType = "InProcess"
)

// IsValid returns true for known customer types
func (c CustomerType) IsValid() bool {
	switch c {
	case CustomerFresh, CustomerReturn, CustomerInProcess:
		return true
	}
	return false
}

// GuardianRelation is the guardian's relation to the candidate
type GuardianRelation string

const (
	RelationFather  GuardianRelation = "Father"
	RelationMother  GuardianRelation = "Mother"
	RelationHusband GuardianRelation = "Husband"
	RelationBrother GuardianRelation = "Brother"
)

// IsValid returns true for known guardian relations
func (r GuardianRelation) IsValid() bool {
	switch r {
	case RelationFather, RelationMother, RelationHusband, RelationBrother:
		return true
	}
	return false
}

// Role is an employee's department role
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHiring    Role = "hiring"
	RoleEntry     Role = "entry"
	RoleDataflow  Role = "dataflow"
	RoleMumaris   Role = "mumaris"
	RoleQVP       Role = "qvp"
	RoleEmbassy   Role = "embassy"
	RoleBureau    Role = "bureau"
	RoleProtector Role = "protector"
)

// IsValid returns true for the nine department roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHiring, RoleEntry, RoleDataflow, RoleMumaris,
		RoleQVP, RoleEmbassy, RoleBureau, RoleProtector:
		return true
	}
	return false
}

// Document names
const (
	DocPassport              = "Passport"
	DocDiploma               = "Diploma"
	DocDiplomaBack           = "Diploma (Back)"
	DocPNC                   = "PNC"
	DocExperienceCertificate = "Experience Certificate"
	DocNOC                   = "NOC"
	DocWakala                = "Wakala"
	DocBriefingPaper         = "Briefing Paper"
	DocAffidavit             = "Affidavit"
	DocDataflowReport        = "Dataflow Report"
	DocMumarisApplication    = "Mumaris Application"
	DocProfilePicture        = "Profile Picture"
	DocVisaForm              = "Visa Form"
	DocMarriageCertificate   = "Marriage Certificate"
	DocCNIC                  = "CNIC"
	DocMatric                = "Matric"
	DocTranscript            = "Transcript"
)

// documentVocabulary lists accepted document names in display order
var documentVocabulary = []string{
	DocPassport,
	DocCNIC,
	DocDiploma,
	DocDiplomaBack,
	DocMatric,
	DocTranscript,
	DocPNC,
	DocExperienceCertificate,
	DocProfilePicture,
	DocDataflowReport,
	DocMumarisApplication,
	DocVisaForm,
	DocWakala,
	DocMarriageCertificate,
	DocNOC,
	DocBriefingPaper,
	DocAffidavit,
}

var documentRank = func() map[string]int {
	m := make(map[string]int, len(documentVocabulary))
	for i, name := range documentVocabulary {
		m[name] = i
	}
	return m
}()

// IsKnownDocument returns true if name belongs to the document vocabulary
func IsKnownDocument(name string) bool {
	_, ok := documentRank[name]
	return ok
}

// DocumentVocabulary returns the accepted document names in display order
func DocumentVocabulary() []string {
	return append([]string(nil), documentVocabulary...)
}

package domain

// Presentation Exchange v2 request shapes, trimmed to what the verifier carries.
// The core treats the definition as an opaque payload produced by the relying
// party: it is stored, embedded into the request object or served by reference,
// and never interpreted.
// https://identity.foundation/presentation-exchange/spec/v2.0.0/

type PresentationDefinition struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	Purpose          string            `json:"purpose,omitempty"`
	InputDescriptors []InputDescriptor `json:"input_descriptors"`
}

type InputDescriptor struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	Purpose     string      `json:"purpose,omitempty"`
	Format      *Format     `json:"format,omitempty"`
	Constraints Constraints `json:"constraints"`
}

type Format struct {
	MsoMdoc   *AlgFormat       `json:"mso_mdoc,omitempty"`
	JwtVCJSON *AlgFormat       `json:"jwt_vc_json,omitempty"`
	LdpVP     *ProofTypeFormat `json:"ldp_vp,omitempty"`
}

type AlgFormat struct {
	Alg []string `json:"alg,omitempty"`
}

type ProofTypeFormat struct {
	ProofType []string `json:"proof_type,omitempty"`
}

type Constraints struct {
	LimitDisclosure string      `json:"limit_disclosure,omitempty"`
	Fields          []PathField `json:"fields,omitempty"`
}

type PathField struct {
	Path           []string `json:"path"`
	ID             string   `json:"id,omitempty"`
	Purpose        string   `json:"purpose,omitempty"`
	Name           string   `json:"name,omitempty"`
	Optional       bool     `json:"optional,omitempty"`
	IntentToRetain bool     `json:"intent_to_retain,omitempty"`
	Filter         *Filter  `json:"filter,omitempty"`
}

type Filter struct {
	Type    string `json:"type,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

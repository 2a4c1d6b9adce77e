package integration

// TypeName is the CloudFormation resource type this provider manages.
const TypeName = "AWS::RDS::Integration"

// ResourceModel is the declared and observed shape of an RDS zero-ETL
// integration. The primary identifier is the integration ARN; the name is
// the natural key used before the ARN is known.
type ResourceModel struct {
	IntegrationName             string            `json:"IntegrationName,omitempty"`
	IntegrationArn              string            `json:"IntegrationArn,omitempty"`
	SourceArn                   string            `json:"SourceArn,omitempty"`
	TargetArn                   string            `json:"TargetArn,omitempty"`
	KMSKeyId                    string            `json:"KMSKeyId,omitempty"`
	AdditionalEncryptionContext map[string]string `json:"AdditionalEncryptionContext,omitempty"`
	DataFilter                  string            `json:"DataFilter,omitempty"`
	Description                 string            `json:"Description,omitempty"`
	Tags                        map[string]string `json:"Tags,omitempty"`
	CreateTime                  string            `json:"CreateTime,omitempty"`
}

// identifier returns the best available handle for log and error messages:
// the ARN once known, the name before that.
func (m *ResourceModel) identifier() string {
	if m == nil {
		return ""
	}
	if m.IntegrationArn != "" {
		return m.IntegrationArn
	}
	return m.IntegrationName
}

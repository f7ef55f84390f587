package publishers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/khobor-archiver/internal/fileconfig"
)

const (
	// Supported publisher types.
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeHTTP      = "http"
	TypeGCPPubSub = "gcp_pubsub"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// configFile represents the structure of the publishers configuration file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig represents a single publisher entry declared in config files.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// AWSCredentials optionally pins static keys and a custom endpoint (e.g. LocalStack).
// Empty fields fall back to the default AWS credential chain and endpoints.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL       string `json:"uri" yaml:"uri"`
	Region         string `json:"region" yaml:"region"`
	AWSCredentials `yaml:",inline"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN       string `json:"topic_arn" yaml:"topic_arn"`
	Region         string `json:"region" yaml:"region"`
	AWSCredentials `yaml:",inline"`
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// HTTPPublisherConfig holds generic HTTP sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry holds the validated publisher entries of one publishers file,
// in file order.
type ConfigRegistry struct {
	entries []PublisherConfig
}

// LoadRegistry loads the publisher registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	var file configFile
	if err := fileconfig.Load(path, "publishers", &file); err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}
	return NewConfigRegistry(file.Publishers...)
}

// NewConfigRegistry sanitizes and validates cfgs and rejects repeated ids.
func NewConfigRegistry(cfgs ...PublisherConfig) (*ConfigRegistry, error) {
	seen := make(map[string]struct{}, len(cfgs))
	reg := &ConfigRegistry{entries: make([]PublisherConfig, 0, len(cfgs))}

	for i, raw := range cfgs {
		cfg := sanitizePublisherConfig(raw)
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		reg.entries = append(reg.entries, cfg)
	}
	return reg, nil
}

func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}

	if c := cfg.SQS; c != nil {
		cp := *c
		cp.QueueURL = strings.TrimSpace(cp.QueueURL)
		cp.Region = strings.TrimSpace(cp.Region)
		cp.AWSCredentials = cp.AWSCredentials.trimmed()
		cfg.SQS = &cp
	}
	if c := cfg.SNS; c != nil {
		cp := *c
		cp.TopicARN = strings.TrimSpace(cp.TopicARN)
		cp.Region = strings.TrimSpace(cp.Region)
		cp.AWSCredentials = cp.AWSCredentials.trimmed()
		cfg.SNS = &cp
	}
	if c := cfg.GCPPubSub; c != nil {
		cp := *c
		cp.ProjectID = strings.TrimSpace(cp.ProjectID)
		cp.Topic = strings.TrimSpace(cp.Topic)
		cp.CredentialsFile = strings.TrimSpace(cp.CredentialsFile)
		cp.Endpoint = strings.TrimSpace(cp.Endpoint)
		cfg.GCPPubSub = &cp
	}
	if c := cfg.HTTP; c != nil {
		cp := *c
		cp.URL = strings.TrimSpace(cp.URL)
		if cp.Method = strings.ToUpper(strings.TrimSpace(cp.Method)); cp.Method == "" {
			cp.Method = httpDefaultMethod
		}
		if cp.TimeoutSeconds <= 0 {
			cp.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cp.Headers = compactHeaders(cp.Headers)
		cfg.HTTP = &cp
	}
	return cfg
}

func (c AWSCredentials) trimmed() AWSCredentials {
	return AWSCredentials{
		AccessKeyID:     strings.TrimSpace(c.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(c.SecretAccessKey),
		SessionToken:    strings.TrimSpace(c.SessionToken),
		Endpoint:        strings.TrimSpace(c.Endpoint),
	}
}

// compactHeaders drops headers whose name or value is blank.
func compactHeaders(in map[string]string) map[string]string {
	var out map[string]string
	for k, v := range in {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(in))
		}
		out[k] = v
	}
	return out
}

// requireFields returns an error naming the first empty field.
func requireFields(id string, fields ...[2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			return fmt.Errorf("%s is required for publisher %q", f[0], id)
		}
	}
	return nil
}

func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeSQS:
		if cfg.SQS == nil {
			return fmt.Errorf("sqs config required for publisher %q", cfg.ID)
		}
		if err := requireFields(cfg.ID, [2]string{"sqs.uri", cfg.SQS.QueueURL}, [2]string{"sqs.region", cfg.SQS.Region}); err != nil {
			return err
		}
		return cfg.SQS.AWSCredentials.validate(cfg.ID, "sqs")
	case TypeSNS:
		if cfg.SNS == nil {
			return fmt.Errorf("sns config required for publisher %q", cfg.ID)
		}
		if err := requireFields(cfg.ID, [2]string{"sns.topic_arn", cfg.SNS.TopicARN}, [2]string{"sns.region", cfg.SNS.Region}); err != nil {
			return err
		}
		return cfg.SNS.AWSCredentials.validate(cfg.ID, "sns")
	case TypeGCPPubSub:
		if cfg.GCPPubSub == nil {
			return fmt.Errorf("gcp_pubsub config required for publisher %q", cfg.ID)
		}
		return requireFields(cfg.ID, [2]string{"gcp_pubsub.project_id", cfg.GCPPubSub.ProjectID}, [2]string{"gcp_pubsub.topic", cfg.GCPPubSub.Topic})
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		return requireFields(cfg.ID, [2]string{"http.url", cfg.HTTP.URL})
	}
	return nil
}

func (c AWSCredentials) validate(id, block string) error {
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("%s.access_key_id and %s.secret_access_key must be set together for publisher %q", block, block, id)
	}
	return nil
}

// ByID returns the publisher entry with id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	id = strings.TrimSpace(id)
	for _, cfg := range r.All() {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return PublisherConfig{}, false
}

// All returns a copy of every entry.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.entries...)
}

// Enabled returns the entries that are switched on.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue reports the enabled flag; entries default to enabled.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

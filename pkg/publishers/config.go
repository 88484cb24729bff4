package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultHTTPTimeout = 5 * time.Second

type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one entry of the publishers file. Only the section
// matching Type is read.
type PublisherConfig struct {
	ID      string        `json:"id" yaml:"id"`
	Type    string        `json:"type" yaml:"type"`
	Enabled *bool         `json:"enabled" yaml:"enabled"`
	Route   Route         `json:"route" yaml:"route"`
	HTTP    *HTTPConfig   `json:"http" yaml:"http"`
	SQS     *SQSConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// AWSAccess picks the region and credentials of an AWS sink. Without keys the
// SDK's default credential chain is used.
type AWSAccess struct {
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	// Endpoint overrides the service endpoint, e.g. for LocalStack.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// SQSConfig targets one queue. Queues whose URL ends in .fifo are FIFO.
type SQSConfig struct {
	AWSAccess `yaml:",inline"`
	QueueURL  string `json:"queue_url" yaml:"queue_url"`
	FIFO      bool   `json:"fifo" yaml:"fifo"`
}

// SNSConfig targets one topic. Topics whose ARN ends in .fifo are FIFO.
type SNSConfig struct {
	AWSAccess `yaml:",inline"`
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
	FIFO      bool   `json:"fifo" yaml:"fifo"`
}

// PubSubConfig targets one topic. Ordered publishing keys messages by their
// routing key.
type PubSubConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Ordered         bool   `json:"ordered" yaml:"ordered"`
}

// HTTPConfig targets a webhook. Timeout is a Go duration string.
type HTTPConfig struct {
	URL     string            `json:"url" yaml:"url"`
	Method  string            `json:"method" yaml:"method"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Timeout string            `json:"timeout" yaml:"timeout"`

	timeout time.Duration
}

// EnabledValue reports whether the entry is active. Entries are on unless
// they say otherwise.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// LoadConfigs reads publisher definitions from a YAML or JSON file.
// ${VAR} references are expanded from the environment before decoding.
func LoadConfigs(path string) ([]PublisherConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeConfigFile([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	ids := make(map[string]int, len(file.Publishers))
	for i := range file.Publishers {
		cfg := &file.Publishers[i]
		if err := cfg.prepare(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if prev, dup := ids[cfg.ID]; dup {
			return nil, fmt.Errorf("publishers[%d]: id %q already used by publishers[%d]", i, cfg.ID, prev)
		}
		ids[cfg.ID] = i
	}
	return file.Publishers, nil
}

// decodeConfigFile picks the decoder from the extension, trying both when
// the extension is unknown.
func decodeConfigFile(data []byte, ext string) (configFile, error) {
	var file configFile
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode yaml publishers: %w", err)
		}
		return file, nil
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode json publishers: %w", err)
		}
		return file, nil
	}

	if err := yaml.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	file = configFile{}
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	return configFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

// prepare normalizes the entry in place and rejects it if it cannot be built.
func (cfg *PublisherConfig) prepare() error {
	trim(&cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	err := cfg.prepareSection()
	if err == nil {
		_, err = cfg.Route.compile()
	}
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

func (cfg *PublisherConfig) prepareSection() error {
	switch cfg.Type {
	case TypeHTTP:
		return cfg.HTTP.prepare()
	case TypeSQS:
		return cfg.SQS.prepare()
	case TypeSNS:
		return cfg.SNS.prepare()
	case TypePubSub:
		return cfg.PubSub.prepare()
	case "":
		return errors.New("type is required")
	default:
		return fmt.Errorf("type %q is not supported", cfg.Type)
	}
}

func (c *HTTPConfig) prepare() error {
	if c == nil {
		return errors.New("http section is missing")
	}
	trim(&c.URL, &c.Timeout)
	if err := need("http", "url", c.URL); err != nil {
		return err
	}

	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodPost
	}

	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = headers

	c.timeout = defaultHTTPTimeout
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("http.timeout %q is not a positive duration", c.Timeout)
		}
		c.timeout = d
	}
	return nil
}

func (c *SQSConfig) prepare() error {
	if c == nil {
		return errors.New("sqs section is missing")
	}
	trim(&c.QueueURL)
	if err := need("sqs", "queue_url", c.QueueURL); err != nil {
		return err
	}
	c.FIFO = c.FIFO || strings.HasSuffix(c.QueueURL, ".fifo")
	return c.AWSAccess.prepare("sqs")
}

func (c *SNSConfig) prepare() error {
	if c == nil {
		return errors.New("sns section is missing")
	}
	trim(&c.TopicARN)
	if err := need("sns", "topic_arn", c.TopicARN); err != nil {
		return err
	}
	c.FIFO = c.FIFO || strings.HasSuffix(c.TopicARN, ".fifo")
	return c.AWSAccess.prepare("sns")
}

func (c *PubSubConfig) prepare() error {
	if c == nil {
		return errors.New("pubsub section is missing")
	}
	trim(&c.ProjectID, &c.Topic, &c.CredentialsFile)
	return need("pubsub", "project_id", c.ProjectID, "topic", c.Topic)
}

func (a *AWSAccess) prepare(section string) error {
	trim(&a.Region, &a.AccessKeyID, &a.SecretAccessKey, &a.Endpoint)
	if err := need(section, "region", a.Region); err != nil {
		return err
	}
	if (a.AccessKeyID == "") != (a.SecretAccessKey == "") {
		return fmt.Errorf("%s.access_key_id and %s.secret_access_key must be set together", section, section)
	}
	return nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// need takes name/value pairs and names every blank value under section.
func need(section string, pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, section+"."+pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}

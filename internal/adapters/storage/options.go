package storage

// Option applies a configuration option to a backend.
type Option func(*options)

type options struct {
	bucket    string
	root      string
	region    string
	endpoint  string
	accessKey string
	secretKey string
	useSSL    bool
}

// WithBucket sets the bucket for remote backends.
func WithBucket(bucket string) Option {
	return func(o *options) { o.bucket = bucket }
}

// WithRoot sets the directory the local backend stores objects under.
func WithRoot(root string) Option {
	return func(o *options) {
		if root != "" {
			o.root = root
		}
	}
}

// WithRegion sets the S3 or MinIO region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points a remote backend at a custom endpoint (MinIO,
// LocalStack, fake-gcs-server).
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithCredentials sets static access keys. Without them the SDK default
// credential chain is used.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithSSL toggles TLS for MinIO endpoints.
func WithSSL(useSSL bool) Option {
	return func(o *options) { o.useSSL = useSSL }
}

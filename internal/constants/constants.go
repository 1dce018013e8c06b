package constants

import "time"

// Salt is the fixed client-side value the embedding page uses for anti-spam hashing.
const Salt = "Eech7co8Ohloopo9Ol6baimi"

var AssetConfig = struct {
	EmbedSuffix      string
	DevMainSuffix    string
	DevLoaderPattern string
	DevEntryPattern  string
	PrefixAttribute  string
	EntryAttribute   string
}{
	EmbedSuffix:      "/js/embed.min.js", // 프로덕션 번들 경로
	DevMainSuffix:    "/js/main",         // require.js data-main 기준 길이
	DevLoaderPattern: `require\.js$`,
	DevEntryPattern:  `/js/embed$`,
	PrefixAttribute:  "data-prefix",
	EntryAttribute:   "data-main",
}

var HTTPConfig = struct {
	Timeout       time.Duration
	PageTimeout   time.Duration
	UserAgent     string
	ContentType   string
	MaxPageBytes  int64
	MaxReplyBytes int64
}{
	Timeout:       10 * time.Second,
	PageTimeout:   15 * time.Second,
	UserAgent:     "Mozilla/5.0 (compatible; IssoClient/1.0)",
	ContentType:   "application/json",
	MaxPageBytes:  4 << 20,
	MaxReplyBytes: 8 << 20,
}

var MetricsConfig = struct {
	Namespace string
	Subsystem string
	Buckets   []float64
}{
	Namespace: "isso",
	Subsystem: "client",
	Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}

var CLIConfig = struct {
	CommandTimeout time.Duration
	BuildTimeout   time.Duration
	ExcerptRunes   int
}{
	CommandTimeout: 30 * time.Second,
	BuildTimeout:   20 * time.Second,
	ExcerptRunes:   280, // 스레드 목록 미리보기 길이
}

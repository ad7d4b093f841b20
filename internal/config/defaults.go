package config

// Default returns the builtin configuration layer: the full pattern
// and extension catalog the hook ships with. Every pattern here is
// marked Builtin so a compile failure aborts the run instead of
// silently dropping default coverage.
func Default() *Config {
	return &Config{
		Enabled: true,
		ValidExtensions: []string{
			".py", ".js", ".jsx", ".ts", ".tsx", ".go", ".rb", ".php",
			".java", ".cs", ".c", ".cpp", ".sh", ".pl", ".r",
			".json", ".yml", ".yaml", ".toml", ".ini", ".cfg", ".conf",
			".properties", ".tf", ".env",
		},
		ProhibitedFiles: []string{
			".env", ".env.local", ".envrc",
			"id_rsa", "id_dsa", "id_ecdsa", "id_ed25519",
			"credentials.json", "service-account.json",
			".netrc", ".npmrc", ".pypirc", ".htpasswd",
		},
		ProhibitedPatterns: builtinPatterns(
			`\.pem$`,
			`\.key$`,
			`\.p12$`,
			`\.pfx$`,
			`\.jks$`,
			`\.keystore$`,
			`\.ppk$`,
			`(^|/)\.env\.[^/]+$`,
			`(^|/)[^/]*_rsa$`,
		),
		Patterns: builtinPatterns(
			// Provider-specific tokens.
			`AKIA[0-9A-Z]{16}`,
			`aws_secret_access_key\s*[=:]\s*["'][A-Za-z0-9/+=]{40}["']`,
			`gh[pos]_[A-Za-z0-9_]{36,}`,
			`github_pat_[A-Za-z0-9_]{22,}`,
			`glpat-[A-Za-z0-9\-_]{20,}`,
			`xox[baprs]-[0-9a-zA-Z-]{10,}`,
			`sk_(live|test)_[A-Za-z0-9]{20,}`,
			`SG\.[A-Za-z0-9_\-]{10,}\.[A-Za-z0-9_\-]{10,}`,
			`-----BEGIN (RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`,
			`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`,
			// Generic assignments, more false-positive prone.
			`(api[_-]?key|apikey|api[_-]?secret)\s*[=:]\s*["'][A-Za-z0-9\-_]{16,}["']`,
			`(password|passwd|pwd)\s*[=:]\s*["'][^"']{8,}["']`,
			`(secret|auth[_-]?token|access[_-]?token)\s*[=:]\s*["'][A-Za-z0-9\-_]{10,}["']`,
			`(postgres|postgresql|mysql|mongodb|redis|amqp)://[^\s"'@]+:[^\s"'@]+@[^\s"']+`,
		),
		Logging: Logging{Level: "info", Format: "text"},
	}
}

func builtinPatterns(sources ...string) []Pattern {
	out := make([]Pattern, len(sources))
	for i, src := range sources {
		out[i] = Pattern{Source: src, Builtin: true}
	}
	return out
}

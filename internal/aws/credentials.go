package aws

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// CredentialDiscovery reads the profiles of the shared AWS files.
type CredentialDiscovery struct {
	credentialsPath string
	configPath      string
}

// NewCredentialDiscovery honors AWS_SHARED_CREDENTIALS_FILE and
// AWS_CONFIG_FILE, defaulting to the files under ~/.aws.
func NewCredentialDiscovery() *CredentialDiscovery {
	return NewCredentialDiscoveryAt(
		envOr("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(expandHomeDir("~"), ".aws", "credentials")),
		envOr("AWS_CONFIG_FILE", filepath.Join(expandHomeDir("~"), ".aws", "config")),
	)
}

// NewCredentialDiscoveryAt reads the given files.
func NewCredentialDiscoveryAt(credentialsPath, configPath string) *CredentialDiscovery {
	return &CredentialDiscovery{credentialsPath: credentialsPath, configPath: configPath}
}

// DiscoverProfiles returns the sorted profile names of both files. Missing
// or unreadable files contribute nothing.
func (d *CredentialDiscovery) DiscoverProfiles() []string {
	profileMap := make(map[string]bool)

	if f, err := ini.LooseLoad(d.credentialsPath); err == nil {
		for _, name := range f.SectionStrings() {
			if name != ini.DefaultSection {
				profileMap[name] = true
			}
		}
	}
	if f, err := ini.LooseLoad(d.configPath); err == nil {
		for _, name := range f.SectionStrings() {
			switch {
			case name == "default":
				profileMap[name] = true
			case strings.HasPrefix(name, "profile "):
				profileMap[strings.TrimPrefix(name, "profile ")] = true
			}
		}
	}

	profiles := make([]string, 0, len(profileMap))
	for p := range profileMap {
		profiles = append(profiles, p)
	}
	sort.Strings(profiles)

	return profiles
}

// HasProfile returns true if the profile is defined in either file.
func (d *CredentialDiscovery) HasProfile(profile string) bool {
	for _, p := range d.DiscoverProfiles() {
		if p == profile {
			return true
		}
	}
	return false
}

// ProfileRegion returns the region configured for a profile, AWS_REGION
// winning over the config file.
func (d *CredentialDiscovery) ProfileRegion(profile string) string {
	if r := os.Getenv("AWS_REGION"); r != "" {
		return r
	}
	if profile == "" {
		profile = envOr("AWS_PROFILE", "default")
	}
	f, err := ini.LooseLoad(d.configPath)
	if err != nil {
		return ""
	}
	name := "profile " + profile
	if profile == "default" {
		name = "default"
	}
	sec, err := f.GetSection(name)
	if err != nil {
		return ""
	}
	return sec.Key("region").String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// expandHomeDir expands ~ to the user's home directory.
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}

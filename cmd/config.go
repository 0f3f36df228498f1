package cmd

import "strings"

// Config carries every externally supplied setting of the live service.
type Config struct {
	HTTPPort       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	RedisAddr      string
	RedisPassword  string
	TronURL        string
	Regions        string
	ReplanSchedule string
}

// RegionList splits the comma-separated Regions setting.
func (c Config) RegionList() []string {
	var regions []string
	for _, r := range strings.Split(c.Regions, ",") {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

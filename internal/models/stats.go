package models

// StatField поле события, по которому строится разбивка на дашборде
type StatField string

const (
	StatIPVersion StatField = "ip_version"
	StatPlatform  StatField = "platform"
	StatCountry   StatField = "country"
	StatISP       StatField = "isp"
)

type StatItem struct {
	ID    string `json:"_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

type ChartData struct {
	IPVersions   []StatItem `json:"ip_versions"`
	OSStats      []StatItem `json:"os_stats"`
	CountryStats []StatItem `json:"country_stats"`
	ISPStats     []StatItem `json:"isp_stats"`
}

type Stats struct {
	TotalLinks  int64     `json:"total_links"`
	TotalClicks int64     `json:"total_clicks"`
	ChartData   ChartData `json:"chart_data"`
	LoggedIn    bool      `json:"logged_in"`
}

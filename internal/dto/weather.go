package dto

// WeatherRequest 天气查询参数
type WeatherRequest struct {
	Location string `form:"location" binding:"omitempty,max=100"`
}

// WeatherResponse 天气播报数据
type WeatherResponse struct {
	Location   string  `json:"location"`
	Region     string  `json:"region,omitempty"`
	Country    string  `json:"country,omitempty"`
	TempC      float64 `json:"temp_c"`
	TempF      float64 `json:"temp_f"`
	FeelsLikeC float64 `json:"feels_like_c"`
	Humidity   int     `json:"humidity"`
	WindKph    float64 `json:"wind_kph"`
	Condition  string  `json:"condition"`
	Icon       string  `json:"icon,omitempty"`
	UpdatedAt  string  `json:"updated_at"`
	Cached     bool    `json:"cached"`
}

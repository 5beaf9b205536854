// 包 stats：外部统计管线产出的分区域汇总记录
package stats

// CategoryCount：某区域内单个类别（政党）的计数
type CategoryCount struct {
	Code  string `json:"partyCode"`
	Label string `json:"partyName"`
	Color string `json:"partyColor"`
	Count int    `json:"seats"`
}

// 文档注释：区域统计记录
// 约束：NameEnglish 与几何文件 properties.name 精确匹配（区分大小写）；字段名沿用统计管线的 JSON 输出。
type RegionStat struct {
	NameEnglish   string          `json:"provinceEng"`
	NameLocal     string          `json:"provinceThai"`
	Total         int             `json:"totalSeats"`
	Suspicious    int             `json:"suspiciousCount"`
	DominantLabel string          `json:"dominantParty"`
	DominantCode  string          `json:"dominantPartyCode"`
	DominantColor string          `json:"dominantPartyColor"`
	DominantCount int             `json:"dominantPartySeats"`
	Breakdown     []CategoryCount `json:"parties"`
}

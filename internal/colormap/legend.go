package colormap

import (
	"sort"

	"province-map/internal/stats"
)

// LegendEntry：类别图例项；Regions 为该类别占主导的区域数
type LegendEntry struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	Color   string `json:"color"`
	Total   int    `json:"total"`
	Regions int    `json:"regions"`
}

// Categories：汇总全表各类别计数，按总数降序，同数按代码升序
func (t *Table) Categories() []LegendEntry {
	idx := make(map[string]int)
	var out []LegendEntry
	for _, r := range t.rows {
		for _, c := range r.Breakdown {
			i, ok := idx[c.Code]
			if !ok {
				i = len(out)
				idx[c.Code] = i
				out = append(out, LegendEntry{Code: c.Code, Label: c.Label, Color: c.Color})
			}
			out[i].Total += c.Count
		}
	}
	// 主导类别可能不在任何明细中（明细缺失），此时用行上的主导字段补建图例项
	for _, r := range t.rows {
		if r.DominantCode == "" {
			continue
		}
		i, ok := idx[r.DominantCode]
		if !ok {
			i = len(out)
			idx[r.DominantCode] = i
			out = append(out, LegendEntry{Code: r.DominantCode, Label: r.DominantLabel, Color: r.DominantColor})
		}
		out[i].Regions++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Totals：全表汇总
type Totals struct {
	Regions    int `json:"regions"`
	Total      int `json:"total"`
	Suspicious int `json:"suspicious"`
	Categories int `json:"categories"`
}

func (t *Table) Totals() Totals {
	out := Totals{Regions: len(t.rows), Categories: len(t.Categories())}
	for _, r := range t.rows {
		out.Total += r.Total
		out.Suspicious += r.Suspicious
	}
	return out
}

// Share：区域内某类别的计数与占比（百分比）
type Share struct {
	stats.CategoryCount
	Percent float64 `json:"percent"`
}

// Detail：选中区域的明细
type Detail struct {
	Stat   stats.RegionStat `json:"stat"`
	Shares []Share          `json:"shares"`
}

// Detail：区域明细；无统计记录时返回 nil
func (t *Table) Detail(name string) *Detail {
	r, ok := t.Lookup(name)
	if !ok {
		return nil
	}
	d := &Detail{Stat: r, Shares: make([]Share, 0, len(r.Breakdown))}
	for _, c := range r.Breakdown {
		d.Shares = append(d.Shares, Share{CategoryCount: c, Percent: ratio(c.Count, r.Total) * 100})
	}
	return d
}

// Sorted：按总数降序的区域表，search 非 nil 时只保留命中项
func (t *Table) Sorted(search map[string]bool) []stats.RegionStat {
	out := make([]stats.RegionStat, 0, len(t.rows))
	for _, r := range t.rows {
		if search != nil && !search[r.NameEnglish] {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

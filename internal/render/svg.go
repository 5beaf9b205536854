package render

import (
	"bytes"
	"html"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"province-map/internal/colormap"
)

// LoadingText：占位图中的提示文字
const LoadingText = "Loading map"

// WriteSVG：输出完整的 SVG 文档
// 约束：viewBox 与画布尺寸一致；全部区域路径包在同一个带 transform 的分组内，
// 空洞依赖 evenodd 填充规则。文档先写入缓冲区，写出失败时不会留下半截输出。
func WriteSVG(w io.Writer, v View) error {
	var buf bytes.Buffer
	cw, ch := dim(v.Canvas.W), dim(v.Canvas.H)
	canvas := svg.New(&buf)
	canvas.Startview(cw, ch, 0, 0, cw, ch)
	if v.Loading {
		writeLoading(canvas, cw, ch)
	} else {
		canvas.Gtransform(v.State.Transform.String())
		for _, r := range v.Regions {
			canvas.Group(attr("data-region", r.Name))
			canvas.Title(r.Title)
			canvas.Path(r.Path,
				`fill-rule="evenodd"`,
				attr("fill", r.Style.Fill),
				attr("fill-opacity", num(r.Style.FillOpacity)),
				attr("stroke", r.Style.Stroke),
				attr("stroke-width", num(r.Style.StrokeWidth)),
			)
			canvas.Gend()
		}
		canvas.Gend()
	}
	canvas.End()
	_, err := buf.WriteTo(w)
	return err
}

func writeLoading(canvas *svg.SVG, w, h int) {
	canvas.Rect(0, 0, w, h, attr("fill", colormap.DefaultPalette().NoData))
	canvas.Text(w/2, h/2, LoadingText,
		`text-anchor="middle"`,
		attr("fill", "#94a3b8"),
		attr("font-size", "14"),
	)
}

func attr(k, v string) string { return k + `="` + html.EscapeString(v) + `"` }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func dim(v float64) int { return int(math.Round(v)) }

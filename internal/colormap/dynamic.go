package colormap

import "sync/atomic"

// 文档注释：可热替换的联接表
// 背景：统计数据重新加载时整表替换，读路径通过 atomic.Value 无锁读取，进行中的渲染继续使用旧表。
// 约束：表本身不可变；未设置时返回空表，所有区域按缺失数据着色。
type Dynamic struct {
	v     atomic.Value // *Table
	empty *Table
}

func NewDynamic(t *Table) *Dynamic {
	d := &Dynamic{empty: NewDefaultTable(nil)}
	if t != nil {
		d.Set(t)
	}
	return d
}

func (d *Dynamic) Table() *Table {
	if x := d.v.Load(); x != nil {
		return x.(*Table)
	}
	return d.empty
}

// WARNING: t 为 nil 时忽略，保留当前表
func (d *Dynamic) Set(t *Table) {
	if t == nil {
		return
	}
	d.v.Store(t)
}

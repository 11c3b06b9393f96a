package core

import "fmt"

// Taxonomy is the fixed two-level category structure for expenses plus the
// flat source list for income. It is loaded once at process start and never
// mutated; changing it is a code change, not a data migration.
type Taxonomy struct {
	order         []string
	subcategories map[string][]string
	incomeSources []string
}

// NewTaxonomy builds a taxonomy from an ordered list of expense categories,
// their subcategory lists and the income source list. The inputs are copied
// so later mutation by the caller cannot leak in.
func NewTaxonomy(categories []string, subcategories map[string][]string, incomeSources []string) Taxonomy {
	t := Taxonomy{
		order:         append([]string(nil), categories...),
		subcategories: make(map[string][]string, len(subcategories)),
		incomeSources: append([]string(nil), incomeSources...),
	}
	for cat, subs := range subcategories {
		t.subcategories[cat] = append([]string(nil), subs...)
	}
	return t
}

// DefaultTaxonomy returns the built-in category set the ledger ships with.
func DefaultTaxonomy() Taxonomy {
	categories := []string{
		"อาหาร", "เดินทาง", "ของใช้", "ช้อปปิ้ง", "บิล/รายเดือน", "สุขภาพ", "อื่นๆ",
	}
	subcategories := map[string][]string{
		"อาหาร":        {"มื้อเช้า", "มื้อกลางวัน", "มื้อเย็น", "น้ำ/กาแฟ/ขนม", "วัตถุดิบทำอาหาร", "สังสรรค์"},
		"เดินทาง":      {"น้ำมัน", "ทางด่วน/จอดรถ", "รถสาธารณะ", "วิน/แท็กซี่/Grab", "ซ่อมบำรุง/ประกัน"},
		"ของใช้":       {"ของใช้ส่วนตัว", "ของใช้ในบ้าน", "เครื่องเขียน/สำนักงาน"},
		"ช้อปปิ้ง":     {"เสื้อผ้า/แฟชั่น", "เครื่องสำอาง", "Gadget/ไอที", "ของเล่น/ของสะสม"},
		"บิล/รายเดือน": {"ค่าน้ำ/ค่าไฟ", "ค่าเน็ต/โทรศัพท์", "ค่าเช่า/ผ่อนบ้าน", "ผ่อนรถ", "Netflix/App"},
		"สุขภาพ":       {"ค่ายา/หาหมอ", "อาหารเสริม", "ทำฟัน"},
		"อื่นๆ":        {"ทำบุญ/บริจาค", "ให้ครอบครัว", "ภาษีสังคม", "อื่นๆ"},
	}
	incomeSources := []string{
		"เงินเดือน", "โบนัส", "งานเสริม/ฟรีแลนซ์", "ดอกเบี้ย/ปันผล", "ขายของ", "ได้รับเงินคืน", "อื่นๆ",
	}
	return NewTaxonomy(categories, subcategories, incomeSources)
}

// Categories returns the expense categories in their defined order.
func (t Taxonomy) Categories() []string {
	return append([]string(nil), t.order...)
}

// Subcategories returns the ordered subcategory list of an expense category.
func (t Taxonomy) Subcategories(category string) ([]string, error) {
	subs, ok := t.subcategories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return append([]string(nil), subs...), nil
}

// IncomeSources returns the ordered income source list.
func (t Taxonomy) IncomeSources() []string {
	return append([]string(nil), t.incomeSources...)
}

// HasCategory reports whether name is a known expense category.
func (t Taxonomy) HasCategory(name string) bool {
	_, ok := t.subcategories[name]
	return ok
}

// HasIncomeSource reports whether name is a known income source.
func (t Taxonomy) HasIncomeSource(name string) bool {
	for _, s := range t.incomeSources {
		if s == name {
			return true
		}
	}
	return false
}

// Resolve checks that the record's category exists for its type: an expense
// category for expenses, an income source for incomes. Subcategory membership
// is not enforced; grid edits routinely move a record across categories while
// leaving the old subcategory text in place.
func (t Taxonomy) Resolve(r Record) error {
	switch r.Type {
	case Income:
		if !t.HasIncomeSource(r.Category) {
			return fmt.Errorf("%w: income source %q", ErrUnknownCategory, r.Category)
		}
	default:
		if !t.HasCategory(r.Category) {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
		}
	}
	return nil
}

package notify

import (
	"html/template"
	"strings"

	"perfume-backend/internal/models"
)

const (
	shopName   = "عطور الشدا"
	currency   = "د.م"
	timeLayout = "2006-01-02 15:04"
)

// formatAmount renders money as #,##0.00.
func formatAmount(m models.Money) string {
	fixed := m.Decimal.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

var templateFuncs = template.FuncMap{
	"amount": formatAmount,
	"hex": func(id interface{ Hex() string }) string {
		return id.Hex()
	},
}

const layoutOpen = `<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">`

const layoutClose = `</div>
</body>
</html>`

const itemsTable = `{{define "items"}}
<div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
<h2 style="color: #d4af37; margin-top: 0;">المنتجات</h2>
<table style="width: 100%; border-collapse: collapse;">
<thead><tr style="background-color: #1a2f4d; color: white;">
<th style="padding: 10px; text-align: right;">المنتج</th>
<th style="padding: 10px; text-align: center;">الكمية</th>
<th style="padding: 10px; text-align: left;">السعر</th>
<th style="padding: 10px; text-align: left;">الإجمالي</th>
</tr></thead>
<tbody>
{{range .Items}}<tr style="border-bottom: 1px solid #eee;">
<td style="padding: 10px;">{{.ProductName}}</td>
<td style="padding: 10px; text-align: center;">{{.Quantity}}</td>
<td style="padding: 10px;">{{amount .Price}} د.م</td>
<td style="padding: 10px;">{{amount .Subtotal}} د.م</td>
</tr>
{{end}}</tbody>
</table>
</div>
<div style="background-color: #d4af37; color: white; padding: 20px; border-radius: 8px; text-align: center;">
<h2 style="margin: 0; font-size: 24px;">الإجمالي: {{amount .TotalAmount}} د.م</h2>
</div>
{{end}}`

var customerTemplate = template.Must(template.New("customer").Funcs(templateFuncs).Parse(itemsTable + layoutOpen + `
<h1 style="color: #1a2f4d; text-align: center;">شكراً لك على طلبك!</h1>
<p style="text-align: center; color: #666;">تم استلام طلبك بنجاح وسنتواصل معك قريباً</p>
<div style="background-color: #f0f9ff; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
<h2 style="color: #1a2f4d; margin-top: 0;">معلومات الطلب</h2>
<p><strong>رقم الطلب:</strong> #{{hex .ID}}</p>
<p><strong>التاريخ:</strong> {{.CreatedAt.Format "2006-01-02 15:04"}}</p>
<p><strong>الحالة:</strong> قيد المعالجة</p>
</div>
{{template "items" .}}
<div style="padding: 20px; margin-top: 20px; text-align: center; color: #666;">
<p>سنقوم بالاتصال بك قريباً لتأكيد الطلب</p>
<p>شكراً لاختيارك عطور الشدا</p>
</div>
` + layoutClose))

var adminTemplate = template.Must(template.New("admin").Funcs(templateFuncs).Parse(itemsTable + layoutOpen + `
<h1 style="color: #1a2f4d; text-align: center;">طلب جديد</h1>
<div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
<h2 style="color: #d4af37; margin-top: 0;">معلومات الطلب</h2>
<p><strong>رقم الطلب:</strong> #{{hex .ID}}</p>
<p><strong>التاريخ:</strong> {{.CreatedAt.Format "2006-01-02 15:04"}}</p>
<p><strong>الحالة:</strong> {{.Status}}</p>
</div>
<div style="background-color: #f9f9f9; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
<h2 style="color: #d4af37; margin-top: 0;">معلومات العميل</h2>
<p><strong>الاسم:</strong> {{.CustomerName}}</p>
<p><strong>البريد الإلكتروني:</strong> {{.CustomerEmail}}</p>
<p><strong>رقم الهاتف:</strong> {{.CustomerPhone}}</p>
{{with .CustomerAddress}}<p><strong>العنوان:</strong> {{.}}</p>{{end}}
</div>
{{template "items" .}}
` + layoutClose))

// lowStockView is what the low-stock alert renders.
type lowStockView struct {
	Product    models.Product
	TotalStock int
	MinStock   int
	LowImages  []lowImage
}

type lowImage struct {
	Position int
	Quantity int
}

var lowStockTemplate = template.Must(template.New("low-stock").Funcs(templateFuncs).Parse(layoutOpen + `
<h1 style="color: #f97316; text-align: center;">⚠️ تنبيه: نقص في المخزون</h1>
<div style="background-color: #fff7ed; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
<h2 style="color: #f97316; margin-top: 0;">معلومات المنتج</h2>
<p><strong>اسم المنتج:</strong> {{.Product.Name}}</p>
<p><strong>رقم المنتج:</strong> #{{hex .Product.ID}}</p>
{{with .Product.Category.Name}}<p><strong>الفئة:</strong> {{.}}</p>{{end}}
</div>
<div style="background-color: #fef2f2; padding: 20px; border-radius: 8px; margin-bottom: 20px;">
<h2 style="color: #ef4444; margin-top: 0;">حالة المخزون</h2>
{{if gt .TotalStock 0}}<p style="font-size: 24px; font-weight: bold; color: #ef4444;">إجمالي المخزون: {{.TotalStock}} قطعة</p>
{{if and (gt .MinStock 0) (lt .MinStock 3)}}<p style="font-size: 18px; color: #dc2626;">أقل كمية متوفرة: {{.MinStock}} قطعة</p>{{end}}
{{else}}<p style="font-size: 24px; font-weight: bold; color: #ef4444;">المخزون: 0 قطعة (نفد المخزون)</p>{{end}}
{{if .LowImages}}<p style="color: #991b1b;"><strong>الصور ذات المخزون المنخفض:</strong></p>
<ul style="color: #991b1b;">{{range .LowImages}}<li>صورة {{.Position}}: {{.Quantity}} قطعة</li>{{end}}</ul>{{end}}
</div>
<p style="text-align: center; color: #666;">يرجى إعادة تعبئة المخزون في أقرب وقت ممكن</p>
` + layoutClose))

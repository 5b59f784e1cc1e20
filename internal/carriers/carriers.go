package carriers

import (
	"regexp"
	"strings"
)

type rule struct {
	name    string
	pattern *regexp.Regexp
}

// Порядок важен: выигрывает первое совпадение. Числовые префиксы у
// перевозчиков пересекаются (несколько форматов начинаются с 7), поэтому
// результат — подсказка, а не истина.
var rules = []rule{
	{"顺丰", regexp.MustCompile(`^SF\d{12,15}$`)},
	{"京东", regexp.MustCompile(`^JD[A-Z0-9]{11,16}$`)},
	{"邮政EMS", regexp.MustCompile(`^E[A-Z]\d{9}[A-Z]{2}$`)},
	{"极兔", regexp.MustCompile(`^JT\d{13,16}$`)},
	{"圆通", regexp.MustCompile(`^YT\d{13,15}$`)},
	{"申通", regexp.MustCompile(`^77\d{13}$`)},
	{"中通", regexp.MustCompile(`^7[0-9]\d{10,13}$`)},
	{"韵达", regexp.MustCompile(`^4[0-9]\d{11,13}$`)},
	{"德邦", regexp.MustCompile(`^DPK\d{10,14}$`)},
}

// Classify возвращает имя перевозчика по номеру или "" если не распознан.
// Чистая функция, не падает ни на какой строке.
func Classify(trackingNumber string) string {
	s := strings.ToUpper(strings.TrimSpace(trackingNumber))
	if s == "" {
		return ""
	}
	for _, r := range rules {
		if r.pattern.MatchString(s) {
			return r.name
		}
	}
	return ""
}

// Names перечисляет известных перевозчиков в порядке правил.
func Names() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.name)
	}
	return out
}

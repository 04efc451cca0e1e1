package pricing

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Разумные пределы цены товара в рублях
const (
	MinPrice = 100
	MaxPrice = 10_000_000
)

var (
	ErrEmptyPrice   = errors.New("empty price")
	ErrPriceTooLow  = errors.New("price below minimum")
	ErrPriceTooHigh = errors.New("price above maximum")
)

// supportedDomains содержит подстроки доменов маркетплейсов, для которых
// имеет смысл пытаться извлечь цену из ссылки
var supportedDomains = []string{
	"wildberries.ru", "wildberries.", "ozon.ru", "ozon.",
	"market.yandex.ru", "citilink.ru", "dns-shop.ru",
	"mvideo.ru", "eldorado.ru", "technopark.ru",
}

// priceParams содержит имена query-параметров, в которых встречается цена
var priceParams = []string{"price", "cost", "amount", "sum"}

var nonDigits = regexp.MustCompile(`[^\d]`)

// ExtractFromURL пытается извлечь цену из ссылки на маркетплейс.
// Это эвристика по query-параметрам, страница по ссылке не запрашивается.
// Возвращает false, если домен не поддерживается или цена вне пределов.
func ExtractFromURL(rawURL string) (int, bool) {
	lower := strings.ToLower(rawURL)

	supported := false
	for _, domain := range supportedDomains {
		if strings.Contains(lower, domain) {
			supported = true
			break
		}
	}
	if !supported {
		return 0, false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, false
	}

	query := parsed.Query()
	for _, key := range priceParams {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		normalized := strings.ReplaceAll(raw, " ", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		value, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			continue
		}
		price := int(value)
		if price >= MinPrice && price <= MaxPrice {
			return price, true
		}
	}
	return 0, false
}

// ParseManual разбирает цену, введённую пользователем вручную.
// Из текста удаляются все нецифровые символы (пробелы, знаки валют).
func ParseManual(text string) (int, error) {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(text), "")
	if digits == "" {
		return 0, ErrEmptyPrice
	}
	price, err := strconv.Atoi(digits)
	if err != nil {
		return 0, ErrEmptyPrice
	}
	if price < MinPrice {
		return 0, ErrPriceTooLow
	}
	if price > MaxPrice {
		return 0, ErrPriceTooHigh
	}
	return price, nil
}

// Economy возвращает экономию относительно известной цены
func Economy(knownPrice, foundPrice int) int {
	return knownPrice - foundPrice
}

// Commission возвращает комиссию сервиса в рублях с округлением вниз
func Commission(economy int, rate float64) int {
	return int(math.Floor(float64(economy) * rate))
}

// Format форматирует цену с пробелами между разрядами: 70000 -> "70 000"
func Format(price int) string {
	s := strconv.Itoa(price)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if negative {
		out = "-" + out
	}
	return out
}

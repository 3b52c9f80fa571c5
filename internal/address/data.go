package address

// Embedded fallback dataset: the most commonly booked provinces and a few
// communes each. Incomplete on purpose; it only has to keep the booking
// form usable while the upstream is down.

var fallbackProvinces = []Province{
	{Code: "01", Name: "Hà Nội"},
	{Code: "48", Name: "Đà Nẵng"},
	{Code: "79", Name: "Hồ Chí Minh"},
	{Code: "46", Name: "Thừa Thiên Huế"},
	{Code: "56", Name: "Khánh Hòa"},
	{Code: "92", Name: "Cần Thơ"},
}

var fallbackCommunesByProvince = map[string][]Commune{
	"01": {
		{Code: "00001", Name: "Phúc Xá", ProvinceCode: "01"},
		{Code: "00004", Name: "Trúc Bạch", ProvinceCode: "01"},
		{Code: "00025", Name: "Hàng Bạc", ProvinceCode: "01"},
	},
	"48": {
		{Code: "20194", Name: "Hải Châu 1", ProvinceCode: "48"},
		{Code: "20224", Name: "An Hải Bắc", ProvinceCode: "48"},
		{Code: "20260", Name: "Mỹ An", ProvinceCode: "48"},
	},
	"79": {
		{Code: "26734", Name: "Bến Nghé", ProvinceCode: "79"},
		{Code: "26740", Name: "Bến Thành", ProvinceCode: "79"},
		{Code: "27043", Name: "Thảo Điền", ProvinceCode: "79"},
	},
	"56": {
		{Code: "22327", Name: "Vĩnh Hòa", ProvinceCode: "56"},
		{Code: "22366", Name: "Lộc Thọ", ProvinceCode: "56"},
	},
}

func fallbackCommunes(provinceCode string) []Commune {
	return fallbackCommunesByProvince[provinceCode]
}

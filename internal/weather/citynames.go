package weather

import (
	"sort"
	"strings"
)

// cityNameMap translates localized city names into the English names the
// OpenWeatherMap city search understands. Several keys may share a value:
// kanji, hiragana, katakana, simplified/traditional Chinese, pinyin and
// Hangul spellings of the same city. Keys are stored trimmed.
//
// The map is built once and only read afterwards; use CanonicalName or
// MappedNames from outside the package.
var cityNameMap = map[string]string{
	// Japan
	"東京": "Tokyo", "とうきょう": "Tokyo", "トウキョウ": "Tokyo",
	"大阪": "Osaka", "おおさか": "Osaka", "オオサカ": "Osaka",
	"京都": "Kyoto", "きょうと": "Kyoto", "キョウト": "Kyoto",
	"名古屋": "Nagoya", "なごや": "Nagoya", "ナゴヤ": "Nagoya",
	"札幌": "Sapporo", "さっぽろ": "Sapporo", "サッポロ": "Sapporo",
	"福岡": "Fukuoka", "ふくおか": "Fukuoka", "フクオカ": "Fukuoka",
	"神戸": "Kobe", "こうべ": "Kobe", "コウベ": "Kobe",
	"横浜": "Yokohama", "よこはま": "Yokohama", "ヨコハマ": "Yokohama",
	"広島": "Hiroshima", "ひろしま": "Hiroshima", "ヒロシマ": "Hiroshima",
	"仙台": "Sendai", "せんだい": "Sendai", "センダイ": "Sendai",
	"千葉": "Chiba", "ちば": "Chiba", "チバ": "Chiba",
	"川崎": "Kawasaki", "かわさき": "Kawasaki", "カワサキ": "Kawasaki",
	"さいたま": "Saitama", "サイタマ": "Saitama",
	"北九州": "Kitakyushu", "きたきゅうしゅう": "Kitakyushu", "キタキュウシュウ": "Kitakyushu",
	"新潟": "Niigata", "にいがた": "Niigata", "ニイガタ": "Niigata",
	"浜松": "Hamamatsu", "はままつ": "Hamamatsu", "ハママツ": "Hamamatsu",
	"熊本": "Kumamoto", "くまもと": "Kumamoto", "クマモト": "Kumamoto",
	"静岡": "Shizuoka", "しずおか": "Shizuoka", "シズオカ": "Shizuoka",
	"岡山": "Okayama", "おかやま": "Okayama", "オカヤマ": "Okayama",
	"鹿児島": "Kagoshima", "かごしま": "Kagoshima", "カゴシマ": "Kagoshima",
	"長崎": "Nagasaki", "ながさき": "Nagasaki", "ナガサキ": "Nagasaki",
	"金沢": "Kanazawa", "かなざわ": "Kanazawa", "カナザワ": "Kanazawa",
	"那覇": "Naha", "なは": "Naha", "ナハ": "Naha",
	"奈良": "Nara", "なら": "Nara", "ナラ": "Nara",

	// China, Hong Kong, Taiwan
	"北京": "Beijing", "běijīng": "Beijing", "ペキン": "Beijing", "ベイジン": "Beijing",
	"上海": "Shanghai", "shànghǎi": "Shanghai", "シャンハイ": "Shanghai",
	"广州": "Guangzhou", "廣州": "Guangzhou", "guǎngzhōu": "Guangzhou", "カントン": "Guangzhou",
	"深圳": "Shenzhen", "shēnzhèn": "Shenzhen", "シンセン": "Shenzhen",
	"成都": "Chengdu", "chéngdū": "Chengdu", "セイト": "Chengdu",
	"杭州": "Hangzhou", "hángzhōu": "Hangzhou", "ハンジョウ": "Hangzhou",
	"武汉": "Wuhan", "武漢": "Wuhan", "wǔhàn": "Wuhan", "ブカン": "Wuhan",
	"西安": "Xi'an", "xīān": "Xi'an", "シーアン": "Xi'an",
	"南京": "Nanjing", "nánjīng": "Nanjing", "ナンキン": "Nanjing",
	"重庆": "Chongqing", "重慶": "Chongqing", "chóngqìng": "Chongqing", "チョンチン": "Chongqing",
	"天津": "Tianjin", "tiānjīn": "Tianjin", "テンシン": "Tianjin",
	"香港": "Hong Kong", "xiānggǎng": "Hong Kong", "ホンコン": "Hong Kong",
	"台北": "Taipei", "臺北": "Taipei", "táiběi": "Taipei", "タイペイ": "Taipei",

	// Korea
	"서울": "Seoul", "ソウル": "Seoul", "首爾": "Seoul",
	"부산": "Busan", "プサン": "Busan", "釜山": "Busan",
	"인천": "Incheon", "インチョン": "Incheon", "仁川": "Incheon",
	"대구": "Daegu", "テグ": "Daegu", "大邱": "Daegu",
	"대전": "Daejeon", "テジョン": "Daejeon", "大田": "Daejeon",
	"광주": "Gwangju", "クァンジュ": "Gwangju", "光州": "Gwangju",
	"제주": "Jeju", "チェジュ": "Jeju", "濟州": "Jeju",

	// Rest of Asia
	"シンガポール": "Singapore", "新加坡": "Singapore", "xīnjiāpō": "Singapore",
	"バンコク": "Bangkok", "曼谷": "Bangkok",
	"クアラルンプール": "Kuala Lumpur", "吉隆坡": "Kuala Lumpur",
	"ジャカルタ": "Jakarta", "雅加达": "Jakarta",
	"マニラ": "Manila", "马尼拉": "Manila",
	"ハノイ": "Hanoi", "河内": "Hanoi",
	"ホーチミン": "Ho Chi Minh City", "胡志明市": "Ho Chi Minh City",
}

// NormalizeCityName trims raw and returns its English name when the trimmed
// value is a known localized spelling, or the trimmed value otherwise.
// Matching is exact: no case folding, no fuzzy matching.
//
// The result is not necessarily a fixed point: English names are not keys,
// so normalizing twice only returns the same value because of that.
func NormalizeCityName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := cityNameMap[trimmed]; ok {
		return canonical
	}
	return trimmed
}

// IsMappedCity reports whether the trimmed input is a known localized
// spelling. Diagnostics only; the lookup never branches on it.
func IsMappedCity(raw string) bool {
	_, ok := cityNameMap[strings.TrimSpace(raw)]
	return ok
}

// CanonicalName returns the English name stored for an exact key.
func CanonicalName(key string) (string, bool) {
	v, ok := cityNameMap[key]
	return v, ok
}

// MappedNames returns every localized key, sorted.
func MappedNames() []string {
	keys := make([]string, 0, len(cityNameMap))
	for k := range cityNameMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

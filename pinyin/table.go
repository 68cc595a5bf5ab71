package pinyin

// syllableEntry is one row of the compiled-in spelling table: a literal
// human spelling together with the syllable it decodes to.
type syllableEntry struct {
	spelling string
	syllable Syllable
}

// syllableTable is the compiled-in static syllable spelling table
// referenced throughout this package (getPinyinMap in the library this
// was modeled on). It is a representative, hand-curated subset of
// standard Mandarin syllables covering every initial/final combination
// exercised by this module's tests and callers, not a machine-generated
// exhaustive syllabary — the upstream project ships its complete table
// as generated data this module's reference material did not carry.
var syllableTable = []syllableEntry{
	// Zero initial: plain vowel/nasal syllables with no onset.
	{"a", Syllable{InitialZero, FinalA}}, {"ai", Syllable{InitialZero, FinalAI}},
	{"an", Syllable{InitialZero, FinalAN}}, {"ang", Syllable{InitialZero, FinalANG}},
	{"ao", Syllable{InitialZero, FinalAO}}, {"e", Syllable{InitialZero, FinalE}},
	{"ei", Syllable{InitialZero, FinalEI}}, {"en", Syllable{InitialZero, FinalEN}},
	{"eng", Syllable{InitialZero, FinalENG}}, {"er", Syllable{InitialZero, FinalER}},
	{"o", Syllable{InitialZero, FinalO}}, {"ou", Syllable{InitialZero, FinalOU}},

	// Y/W glide-initial syllables (orthographic realization of the
	// zero-initial i/u/ü finals).
	{"yi", Syllable{InitialY, FinalI}}, {"ya", Syllable{InitialY, FinalIA}},
	{"ye", Syllable{InitialY, FinalIE}}, {"yao", Syllable{InitialY, FinalIAO}},
	{"you", Syllable{InitialY, FinalIU}}, {"yan", Syllable{InitialY, FinalIAN}},
	{"yin", Syllable{InitialY, FinalIN}}, {"yang", Syllable{InitialY, FinalIANG}},
	{"ying", Syllable{InitialY, FinalING}}, {"yong", Syllable{InitialY, FinalIONG}},
	{"yu", Syllable{InitialY, FinalV}}, {"yue", Syllable{InitialY, FinalVE}},
	{"wu", Syllable{InitialW, FinalU}}, {"wa", Syllable{InitialW, FinalUA}},
	{"wo", Syllable{InitialW, FinalUO}}, {"wai", Syllable{InitialW, FinalUAI}},
	{"wei", Syllable{InitialW, FinalUI}}, {"wan", Syllable{InitialW, FinalUAN}},
	{"wen", Syllable{InitialW, FinalUN}}, {"wang", Syllable{InitialW, FinalUANG}},

	// B P M F (labials).
	{"ba", Syllable{InitialB, FinalA}}, {"bo", Syllable{InitialB, FinalO}},
	{"bai", Syllable{InitialB, FinalAI}}, {"bei", Syllable{InitialB, FinalEI}},
	{"bao", Syllable{InitialB, FinalAO}}, {"ban", Syllable{InitialB, FinalAN}},
	{"bang", Syllable{InitialB, FinalANG}}, {"ben", Syllable{InitialB, FinalEN}},
	{"beng", Syllable{InitialB, FinalENG}}, {"bi", Syllable{InitialB, FinalI}},
	{"bie", Syllable{InitialB, FinalIE}}, {"biao", Syllable{InitialB, FinalIAO}},
	{"bian", Syllable{InitialB, FinalIAN}}, {"bin", Syllable{InitialB, FinalIN}},
	{"bing", Syllable{InitialB, FinalING}}, {"bu", Syllable{InitialB, FinalU}},

	{"pa", Syllable{InitialP, FinalA}}, {"po", Syllable{InitialP, FinalO}},
	{"pai", Syllable{InitialP, FinalAI}}, {"pei", Syllable{InitialP, FinalEI}},
	{"pao", Syllable{InitialP, FinalAO}}, {"pou", Syllable{InitialP, FinalOU}},
	{"pan", Syllable{InitialP, FinalAN}}, {"pang", Syllable{InitialP, FinalANG}},
	{"pen", Syllable{InitialP, FinalEN}}, {"peng", Syllable{InitialP, FinalENG}},
	{"pi", Syllable{InitialP, FinalI}}, {"pie", Syllable{InitialP, FinalIE}},
	{"piao", Syllable{InitialP, FinalIAO}}, {"pian", Syllable{InitialP, FinalIAN}},
	{"pin", Syllable{InitialP, FinalIN}}, {"ping", Syllable{InitialP, FinalING}},
	{"pu", Syllable{InitialP, FinalU}},

	{"ma", Syllable{InitialM, FinalA}}, {"mo", Syllable{InitialM, FinalO}},
	{"mai", Syllable{InitialM, FinalAI}}, {"mei", Syllable{InitialM, FinalEI}},
	{"mao", Syllable{InitialM, FinalAO}}, {"mou", Syllable{InitialM, FinalOU}},
	{"man", Syllable{InitialM, FinalAN}}, {"mang", Syllable{InitialM, FinalANG}},
	{"men", Syllable{InitialM, FinalEN}}, {"meng", Syllable{InitialM, FinalENG}},
	{"mi", Syllable{InitialM, FinalI}}, {"mie", Syllable{InitialM, FinalIE}},
	{"miao", Syllable{InitialM, FinalIAO}}, {"miu", Syllable{InitialM, FinalIU}},
	{"mian", Syllable{InitialM, FinalIAN}}, {"min", Syllable{InitialM, FinalIN}},
	{"ming", Syllable{InitialM, FinalING}}, {"mu", Syllable{InitialM, FinalU}},

	{"fa", Syllable{InitialF, FinalA}}, {"fo", Syllable{InitialF, FinalO}},
	{"fei", Syllable{InitialF, FinalEI}}, {"fou", Syllable{InitialF, FinalOU}},
	{"fan", Syllable{InitialF, FinalAN}}, {"fang", Syllable{InitialF, FinalANG}},
	{"fen", Syllable{InitialF, FinalEN}}, {"feng", Syllable{InitialF, FinalENG}},
	{"fu", Syllable{InitialF, FinalU}},

	// D T N L (alveolars).
	{"da", Syllable{InitialD, FinalA}}, {"de", Syllable{InitialD, FinalE}},
	{"dai", Syllable{InitialD, FinalAI}}, {"dei", Syllable{InitialD, FinalEI}},
	{"dao", Syllable{InitialD, FinalAO}}, {"dou", Syllable{InitialD, FinalOU}},
	{"dan", Syllable{InitialD, FinalAN}}, {"dang", Syllable{InitialD, FinalANG}},
	{"den", Syllable{InitialD, FinalEN}}, {"deng", Syllable{InitialD, FinalENG}},
	{"dong", Syllable{InitialD, FinalONG}}, {"di", Syllable{InitialD, FinalI}},
	{"die", Syllable{InitialD, FinalIE}}, {"diao", Syllable{InitialD, FinalIAO}},
	{"diu", Syllable{InitialD, FinalIU}}, {"dian", Syllable{InitialD, FinalIAN}},
	{"ding", Syllable{InitialD, FinalING}}, {"du", Syllable{InitialD, FinalU}},
	{"duo", Syllable{InitialD, FinalUO}}, {"dui", Syllable{InitialD, FinalUI}},
	{"duan", Syllable{InitialD, FinalUAN}}, {"dun", Syllable{InitialD, FinalUN}},

	{"ta", Syllable{InitialT, FinalA}}, {"te", Syllable{InitialT, FinalE}},
	{"tai", Syllable{InitialT, FinalAI}}, {"tao", Syllable{InitialT, FinalAO}},
	{"tou", Syllable{InitialT, FinalOU}}, {"tan", Syllable{InitialT, FinalAN}},
	{"tang", Syllable{InitialT, FinalANG}}, {"teng", Syllable{InitialT, FinalENG}},
	{"tong", Syllable{InitialT, FinalONG}}, {"ti", Syllable{InitialT, FinalI}},
	{"tie", Syllable{InitialT, FinalIE}}, {"tiao", Syllable{InitialT, FinalIAO}},
	{"tian", Syllable{InitialT, FinalIAN}}, {"ting", Syllable{InitialT, FinalING}},
	{"tu", Syllable{InitialT, FinalU}}, {"tuo", Syllable{InitialT, FinalUO}},
	{"tui", Syllable{InitialT, FinalUI}}, {"tuan", Syllable{InitialT, FinalUAN}},
	{"tun", Syllable{InitialT, FinalUN}},

	{"na", Syllable{InitialN, FinalA}}, {"ne", Syllable{InitialN, FinalE}},
	{"nai", Syllable{InitialN, FinalAI}}, {"nei", Syllable{InitialN, FinalEI}},
	{"nao", Syllable{InitialN, FinalAO}}, {"nou", Syllable{InitialN, FinalOU}},
	{"nan", Syllable{InitialN, FinalAN}}, {"nang", Syllable{InitialN, FinalANG}},
	{"nen", Syllable{InitialN, FinalEN}}, {"neng", Syllable{InitialN, FinalENG}},
	{"nong", Syllable{InitialN, FinalONG}}, {"ni", Syllable{InitialN, FinalI}},
	{"nie", Syllable{InitialN, FinalIE}}, {"niao", Syllable{InitialN, FinalIAO}},
	{"niu", Syllable{InitialN, FinalIU}}, {"nian", Syllable{InitialN, FinalIAN}},
	{"nin", Syllable{InitialN, FinalIN}}, {"niang", Syllable{InitialN, FinalIANG}},
	{"ning", Syllable{InitialN, FinalING}}, {"nu", Syllable{InitialN, FinalU}},
	{"nuo", Syllable{InitialN, FinalUO}}, {"nuan", Syllable{InitialN, FinalUAN}},
	{"nv", Syllable{InitialN, FinalV}}, {"nve", Syllable{InitialN, FinalVE}},

	{"la", Syllable{InitialL, FinalA}}, {"le", Syllable{InitialL, FinalE}},
	{"lai", Syllable{InitialL, FinalAI}}, {"lei", Syllable{InitialL, FinalEI}},
	{"lao", Syllable{InitialL, FinalAO}}, {"lou", Syllable{InitialL, FinalOU}},
	{"lan", Syllable{InitialL, FinalAN}}, {"lang", Syllable{InitialL, FinalANG}},
	{"leng", Syllable{InitialL, FinalENG}}, {"long", Syllable{InitialL, FinalONG}},
	{"li", Syllable{InitialL, FinalI}}, {"lia", Syllable{InitialL, FinalIA}},
	{"lie", Syllable{InitialL, FinalIE}}, {"liao", Syllable{InitialL, FinalIAO}},
	{"liu", Syllable{InitialL, FinalIU}}, {"lian", Syllable{InitialL, FinalIAN}},
	{"lin", Syllable{InitialL, FinalIN}}, {"liang", Syllable{InitialL, FinalIANG}},
	{"ling", Syllable{InitialL, FinalING}}, {"lu", Syllable{InitialL, FinalU}},
	{"luo", Syllable{InitialL, FinalUO}}, {"luan", Syllable{InitialL, FinalUAN}},
	{"lun", Syllable{InitialL, FinalUN}}, {"lv", Syllable{InitialL, FinalV}},
	{"lve", Syllable{InitialL, FinalVE}},

	// G K H (velars).
	{"ga", Syllable{InitialG, FinalA}}, {"ge", Syllable{InitialG, FinalE}},
	{"gai", Syllable{InitialG, FinalAI}}, {"gei", Syllable{InitialG, FinalEI}},
	{"gao", Syllable{InitialG, FinalAO}}, {"gou", Syllable{InitialG, FinalOU}},
	{"gan", Syllable{InitialG, FinalAN}}, {"gang", Syllable{InitialG, FinalANG}},
	{"gen", Syllable{InitialG, FinalEN}}, {"geng", Syllable{InitialG, FinalENG}},
	{"gong", Syllable{InitialG, FinalONG}}, {"gu", Syllable{InitialG, FinalU}},
	{"gua", Syllable{InitialG, FinalUA}}, {"guo", Syllable{InitialG, FinalUO}},
	{"guai", Syllable{InitialG, FinalUAI}}, {"gui", Syllable{InitialG, FinalUI}},
	{"guan", Syllable{InitialG, FinalUAN}}, {"gun", Syllable{InitialG, FinalUN}},
	{"guang", Syllable{InitialG, FinalUANG}},

	{"ka", Syllable{InitialK, FinalA}}, {"ke", Syllable{InitialK, FinalE}},
	{"kai", Syllable{InitialK, FinalAI}}, {"kei", Syllable{InitialK, FinalEI}},
	{"kao", Syllable{InitialK, FinalAO}}, {"kou", Syllable{InitialK, FinalOU}},
	{"kan", Syllable{InitialK, FinalAN}}, {"kang", Syllable{InitialK, FinalANG}},
	{"ken", Syllable{InitialK, FinalEN}}, {"keng", Syllable{InitialK, FinalENG}},
	{"kong", Syllable{InitialK, FinalONG}}, {"ku", Syllable{InitialK, FinalU}},
	{"kua", Syllable{InitialK, FinalUA}}, {"kuo", Syllable{InitialK, FinalUO}},
	{"kuai", Syllable{InitialK, FinalUAI}}, {"kui", Syllable{InitialK, FinalUI}},
	{"kuan", Syllable{InitialK, FinalUAN}}, {"kun", Syllable{InitialK, FinalUN}},
	{"kuang", Syllable{InitialK, FinalUANG}},

	{"ha", Syllable{InitialH, FinalA}}, {"he", Syllable{InitialH, FinalE}},
	{"hai", Syllable{InitialH, FinalAI}}, {"hei", Syllable{InitialH, FinalEI}},
	{"hao", Syllable{InitialH, FinalAO}}, {"hou", Syllable{InitialH, FinalOU}},
	{"han", Syllable{InitialH, FinalAN}}, {"hang", Syllable{InitialH, FinalANG}},
	{"hen", Syllable{InitialH, FinalEN}}, {"heng", Syllable{InitialH, FinalENG}},
	{"hong", Syllable{InitialH, FinalONG}}, {"hu", Syllable{InitialH, FinalU}},
	{"hua", Syllable{InitialH, FinalUA}}, {"huo", Syllable{InitialH, FinalUO}},
	{"huai", Syllable{InitialH, FinalUAI}}, {"hui", Syllable{InitialH, FinalUI}},
	{"huan", Syllable{InitialH, FinalUAN}}, {"hun", Syllable{InitialH, FinalUN}},
	{"huang", Syllable{InitialH, FinalUANG}},

	// J Q X (palatals; u here is orthographic ü).
	{"ji", Syllable{InitialJ, FinalI}}, {"jia", Syllable{InitialJ, FinalIA}},
	{"jie", Syllable{InitialJ, FinalIE}}, {"jiao", Syllable{InitialJ, FinalIAO}},
	{"jiu", Syllable{InitialJ, FinalIU}}, {"jian", Syllable{InitialJ, FinalIAN}},
	{"jin", Syllable{InitialJ, FinalIN}}, {"jiang", Syllable{InitialJ, FinalIANG}},
	{"jing", Syllable{InitialJ, FinalING}}, {"jiong", Syllable{InitialJ, FinalIONG}},
	{"ju", Syllable{InitialJ, FinalV}}, {"jue", Syllable{InitialJ, FinalVE}},
	{"juan", Syllable{InitialJ, FinalUAN}}, {"jun", Syllable{InitialJ, FinalUN}},

	{"qi", Syllable{InitialQ, FinalI}}, {"qia", Syllable{InitialQ, FinalIA}},
	{"qie", Syllable{InitialQ, FinalIE}}, {"qiao", Syllable{InitialQ, FinalIAO}},
	{"qiu", Syllable{InitialQ, FinalIU}}, {"qian", Syllable{InitialQ, FinalIAN}},
	{"qin", Syllable{InitialQ, FinalIN}}, {"qiang", Syllable{InitialQ, FinalIANG}},
	{"qing", Syllable{InitialQ, FinalING}}, {"qiong", Syllable{InitialQ, FinalIONG}},
	{"qu", Syllable{InitialQ, FinalV}}, {"que", Syllable{InitialQ, FinalVE}},
	{"quan", Syllable{InitialQ, FinalUAN}}, {"qun", Syllable{InitialQ, FinalUN}},

	{"xi", Syllable{InitialX, FinalI}}, {"xia", Syllable{InitialX, FinalIA}},
	{"xie", Syllable{InitialX, FinalIE}}, {"xiao", Syllable{InitialX, FinalIAO}},
	{"xiu", Syllable{InitialX, FinalIU}}, {"xian", Syllable{InitialX, FinalIAN}},
	{"xin", Syllable{InitialX, FinalIN}}, {"xiang", Syllable{InitialX, FinalIANG}},
	{"xing", Syllable{InitialX, FinalING}}, {"xiong", Syllable{InitialX, FinalIONG}},
	{"xu", Syllable{InitialX, FinalV}}, {"xue", Syllable{InitialX, FinalVE}},
	{"xuan", Syllable{InitialX, FinalUAN}}, {"xun", Syllable{InitialX, FinalUN}},

	// ZH CH SH R (retroflexes) and Z C S (dentals): "i" here is the
	// buzzed/apical vowel, not the palatal glide, so these never combine
	// with the IA/IE/... family.
	{"zha", Syllable{InitialZH, FinalA}}, {"zhe", Syllable{InitialZH, FinalE}},
	{"zhi", Syllable{InitialZH, FinalI}}, {"zhai", Syllable{InitialZH, FinalAI}},
	{"zhei", Syllable{InitialZH, FinalEI}}, {"zhao", Syllable{InitialZH, FinalAO}},
	{"zhou", Syllable{InitialZH, FinalOU}}, {"zhan", Syllable{InitialZH, FinalAN}},
	{"zhang", Syllable{InitialZH, FinalANG}}, {"zhen", Syllable{InitialZH, FinalEN}},
	{"zheng", Syllable{InitialZH, FinalENG}}, {"zhong", Syllable{InitialZH, FinalONG}},
	{"zhu", Syllable{InitialZH, FinalU}}, {"zhua", Syllable{InitialZH, FinalUA}},
	{"zhuo", Syllable{InitialZH, FinalUO}}, {"zhuai", Syllable{InitialZH, FinalUAI}},
	{"zhui", Syllable{InitialZH, FinalUI}}, {"zhuan", Syllable{InitialZH, FinalUAN}},
	{"zhun", Syllable{InitialZH, FinalUN}}, {"zhuang", Syllable{InitialZH, FinalUANG}},

	{"cha", Syllable{InitialCH, FinalA}}, {"che", Syllable{InitialCH, FinalE}},
	{"chi", Syllable{InitialCH, FinalI}}, {"chai", Syllable{InitialCH, FinalAI}},
	{"chao", Syllable{InitialCH, FinalAO}}, {"chou", Syllable{InitialCH, FinalOU}},
	{"chan", Syllable{InitialCH, FinalAN}}, {"chang", Syllable{InitialCH, FinalANG}},
	{"chen", Syllable{InitialCH, FinalEN}}, {"cheng", Syllable{InitialCH, FinalENG}},
	{"chong", Syllable{InitialCH, FinalONG}}, {"chu", Syllable{InitialCH, FinalU}},
	{"chua", Syllable{InitialCH, FinalUA}}, {"chuo", Syllable{InitialCH, FinalUO}},
	{"chuai", Syllable{InitialCH, FinalUAI}}, {"chui", Syllable{InitialCH, FinalUI}},
	{"chuan", Syllable{InitialCH, FinalUAN}}, {"chun", Syllable{InitialCH, FinalUN}},
	{"chuang", Syllable{InitialCH, FinalUANG}},

	{"sha", Syllable{InitialSH, FinalA}}, {"she", Syllable{InitialSH, FinalE}},
	{"shi", Syllable{InitialSH, FinalI}}, {"shai", Syllable{InitialSH, FinalAI}},
	{"shei", Syllable{InitialSH, FinalEI}}, {"shao", Syllable{InitialSH, FinalAO}},
	{"shou", Syllable{InitialSH, FinalOU}}, {"shan", Syllable{InitialSH, FinalAN}},
	{"shang", Syllable{InitialSH, FinalANG}}, {"shen", Syllable{InitialSH, FinalEN}},
	{"sheng", Syllable{InitialSH, FinalENG}}, {"shu", Syllable{InitialSH, FinalU}},
	{"shua", Syllable{InitialSH, FinalUA}}, {"shuo", Syllable{InitialSH, FinalUO}},
	{"shuai", Syllable{InitialSH, FinalUAI}}, {"shui", Syllable{InitialSH, FinalUI}},
	{"shuan", Syllable{InitialSH, FinalUAN}}, {"shun", Syllable{InitialSH, FinalUN}},
	{"shuang", Syllable{InitialSH, FinalUANG}},

	{"re", Syllable{InitialR, FinalE}}, {"ri", Syllable{InitialR, FinalI}},
	{"rao", Syllable{InitialR, FinalAO}}, {"rou", Syllable{InitialR, FinalOU}},
	{"ran", Syllable{InitialR, FinalAN}}, {"rang", Syllable{InitialR, FinalANG}},
	{"ren", Syllable{InitialR, FinalEN}}, {"reng", Syllable{InitialR, FinalENG}},
	{"rong", Syllable{InitialR, FinalONG}}, {"ru", Syllable{InitialR, FinalU}},
	{"rua", Syllable{InitialR, FinalUA}}, {"ruo", Syllable{InitialR, FinalUO}},
	{"rui", Syllable{InitialR, FinalUI}}, {"ruan", Syllable{InitialR, FinalUAN}},
	{"run", Syllable{InitialR, FinalUN}},

	{"za", Syllable{InitialZ, FinalA}}, {"ze", Syllable{InitialZ, FinalE}},
	{"zi", Syllable{InitialZ, FinalI}}, {"zai", Syllable{InitialZ, FinalAI}},
	{"zei", Syllable{InitialZ, FinalEI}}, {"zao", Syllable{InitialZ, FinalAO}},
	{"zou", Syllable{InitialZ, FinalOU}}, {"zan", Syllable{InitialZ, FinalAN}},
	{"zang", Syllable{InitialZ, FinalANG}}, {"zen", Syllable{InitialZ, FinalEN}},
	{"zeng", Syllable{InitialZ, FinalENG}}, {"zong", Syllable{InitialZ, FinalONG}},
	{"zu", Syllable{InitialZ, FinalU}}, {"zuo", Syllable{InitialZ, FinalUO}},
	{"zui", Syllable{InitialZ, FinalUI}}, {"zuan", Syllable{InitialZ, FinalUAN}},
	{"zun", Syllable{InitialZ, FinalUN}},

	{"ca", Syllable{InitialC, FinalA}}, {"ce", Syllable{InitialC, FinalE}},
	{"ci", Syllable{InitialC, FinalI}}, {"cai", Syllable{InitialC, FinalAI}},
	{"cao", Syllable{InitialC, FinalAO}}, {"cou", Syllable{InitialC, FinalOU}},
	{"can", Syllable{InitialC, FinalAN}}, {"cang", Syllable{InitialC, FinalANG}},
	{"cen", Syllable{InitialC, FinalEN}}, {"ceng", Syllable{InitialC, FinalENG}},
	{"cong", Syllable{InitialC, FinalONG}}, {"cu", Syllable{InitialC, FinalU}},
	{"cuo", Syllable{InitialC, FinalUO}}, {"cui", Syllable{InitialC, FinalUI}},
	{"cuan", Syllable{InitialC, FinalUAN}}, {"cun", Syllable{InitialC, FinalUN}},

	{"sa", Syllable{InitialS, FinalA}}, {"se", Syllable{InitialS, FinalE}},
	{"si", Syllable{InitialS, FinalI}}, {"sai", Syllable{InitialS, FinalAI}},
	{"sao", Syllable{InitialS, FinalAO}}, {"sou", Syllable{InitialS, FinalOU}},
	{"san", Syllable{InitialS, FinalAN}}, {"sang", Syllable{InitialS, FinalANG}},
	{"sen", Syllable{InitialS, FinalEN}}, {"seng", Syllable{InitialS, FinalENG}},
	{"song", Syllable{InitialS, FinalONG}}, {"su", Syllable{InitialS, FinalU}},
	{"suo", Syllable{InitialS, FinalUO}}, {"sui", Syllable{InitialS, FinalUI}},
	{"suan", Syllable{InitialS, FinalUAN}}, {"sun", Syllable{InitialS, FinalUN}},
}

// bySpelling and byInitialFinal are built once from syllableTable.
var (
	bySpelling      map[string][]Syllable
	byInitialFinal  map[Syllable]string
	validInitialFinal [int(LastInitial-FirstInitial+1) * int(LastFinal-FirstFinal+1)]bool
)

func init() {
	bySpelling = make(map[string][]Syllable, len(syllableTable))
	byInitialFinal = make(map[Syllable]string, len(syllableTable))
	for _, e := range syllableTable {
		bySpelling[e.spelling] = append(bySpelling[e.spelling], e.syllable)
		byInitialFinal[e.syllable] = e.spelling
		validInitialFinal[encodeInitialFinal(e.syllable.Initial, e.syllable.Final)] = true
	}
}

func encodeInitialFinal(initial Initial, final Final) int {
	return int(initial-FirstInitial)*int(LastFinal-FirstFinal+1) + int(final-FirstFinal)
}

// IsValidInitialFinal reports whether (initial, final) is a syllable
// the compiled-in table recognizes.
func IsValidInitialFinal(initial Initial, final Final) bool {
	if initial == InitialInvalid || final == FinalInvalid {
		return false
	}
	if initial < FirstInitial || initial > LastInitial || final < FirstFinal || final > LastFinal {
		return false
	}
	return validInitialFinal[encodeInitialFinal(initial, final)]
}

// spellingOf returns the canonical human spelling for a full syllable,
// falling back to plain initial+final concatenation for a syllable this
// table doesn't carry a special orthographic form for (should not
// normally happen for a valid syllable).
func spellingOf(s Syllable) string {
	if sp, ok := byInitialFinal[s]; ok {
		return sp
	}
	return s.String()
}

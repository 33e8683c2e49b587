package analyzer

// defaultStopwords is the built-in low-information word list for the
// predominantly Chinese corpus. A stopword file in the config replaces it.
var defaultStopwords = []string{
	"的", "了", "是", "在", "我", "你", "他", "她", "它", "们",
	"这", "那", "有", "和", "就", "不", "也", "都", "要", "会",
	"可以", "没有", "什么", "一个", "我们", "自己", "他们", "没", "很", "到",
	"说", "对", "吗", "啊", "呢", "吧", "嗯", "哦", "哈", "呀",
	"嘛", "哎", "唉", "喔", "噢", "把", "被", "让", "给", "从",
	"去", "来", "上", "下", "里", "中", "大", "小", "多", "少",
	"个", "人", "还", "能", "做", "看", "想", "知道", "时候", "现在",
	"因为", "所以", "但是", "如果", "这个", "那个", "已经", "可能", "应该", "怎么",
	"为什么", "这样", "那样", "一下", "一些", "然后", "或者", "而且", "虽然", "不过",
	"只是", "其实", "觉得", "比较", "一样",
}

// markupPhrases are platform chrome that survives HTML stripping and
// would otherwise pollute the frequency tables.
var markupPhrases = []string{
	"转发微博",
	"网页链接",
	"查看图片",
	"展开全文",
	"微博视频",
	"的微博视频",
	"原图",
	"全文",
	"秒拍视频",
}

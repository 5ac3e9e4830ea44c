package profanity

// dutchWordlist is the denylist of Dutch profanity and inappropriate words
// used for player name validation. It can be extended per deployment via
// Filter.New with additional words.
var dutchWordlist = []string{
	"aso", "debiel", "drol", "eikel", "flikker", "hoer", "homo", "klootzak",
	"kut", "lul", "mongool", "neger", "slet", "sukkel", "tering", "trut",
	"verdomme", "godverdomme", "gvd", "klote", "pokke", "tyfus", "bitch",
	"kak", "shit", "fuck", "pijpen", "neuken", "aftrekken", "rukken",
	"geil", "hoerenloper", "kanker", "kk", "kankerlijer", "lijer",
	"mierenneuker", "mof", "neuk", "nicht", "pedo", "pleuris", "randdebiel",
	"scheit", "schijt", "sperma", "tyfuslijer", "vagina", "penis",
	"zaad", "zwartkop",
}

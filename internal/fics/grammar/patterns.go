// Package grammar holds the catalogue of FICS server output shapes.
//
// Patterns are written for whole-text matching unless noted. The dispatcher
// decides whether a pattern is applied as a full match, an anchored prefix or
// an unanchored search; the patterns themselves carry no anchors.
package grammar

import "regexp"

const (
	style12X = `\x07?\n<12> .*\n(?:<b1> game \d+ white \[\w*\] black \[\w*\]\n)?`
	style12  = `\x07?\n<12> (.*)\n(?:<b1> game \d+ white \[\w*\] black \[\w*\]\n)?`
	handleX  = `[A-Za-z]{3,}`
	handle   = `(` + handleX + `)`
	titlesX  = `(?:\([A-Z*()]+\))?`
	titles   = `(?:\(([A-Z*()]+)\))?`
	ratingX  = `\( *[-\d+]+[PE]?\)`
	ratingC  = `\( *([-\d+]+)[PE]?\)`
	resultC  = `(1-0|0-1|1/2-1/2|\*)`

	optionalRatingAdjustment = `(?:\n\w+ rating adjustment: \d+ --> \d+\n(?:\w+ \w?rank: .*\n)*(?:You have achieved your best active rating so far\.\n)?|\nNo ratings adjustment done\.\n)?`

	gameEndX = `\{Game \d+ \(` + handleX + ` vs\. ` + handleX + `\) (.*?)\} ` + resultC + `\n`
	gameEndC = `\{Game (\d+) \(` + handleX + ` vs\. ` + handleX + `\) (.*?)\} ` + resultC + `\n`

	seekFields = `<s> (\d+) w=` + handle + ` ti=(\w+) rt=(\d+)([P E]) t=(\d+) i=(\d+) r=([ru]) tp=(\S+) c=([?WB]) rr=(\d+)-(\d+) a=([ft]) f=([ft])\n`

	removingObserved = `Removing game \d+ from observation list\.\n`
)

func mustCompile(expr string) *regexp.Regexp { return regexp.MustCompile(expr) }

// Continuation artifacts: a prefix the server prepends to an unrelated message.
var (
	HackMultipleAccepts = mustCompile(`\n` + handleX + ` accepts your seek\.\n`)

	HackPostedManualSeek = mustCompile(
		`\nYour seek matches one posted by ` + handleX + `\.\n` +
			`Issuing match request since the seek was set to manual\.\n` +
			`Issuing: ` + handleX + ` ` + ratingX + ` ` + handleX + ` ` + ratingX + ` (?:un)?rated \S+ \d+ \d+\.\n` +
			`(?:Your \w+ rating will change: .*\n` +
			`Your new RD will be [\d.]+\n)?`)
)

// Communication.
var (
	PrivateTell   = mustCompile(`\n` + handle + titlesX + ` tells you: (.*)\n`)
	Say           = mustCompile(`\n` + handle + titlesX + `(?:\[\d+\])? says: (.*)\n`)
	PartnerTell   = mustCompile(`\n` + handle + titlesX + ` \(your partner\) tells you: (.*)\n`)
	ChannelTell   = mustCompile(`\n` + handle + titlesX + `\((\d+)\): (.*)\n`)
	Shout         = mustCompile(`\n` + handle + titlesX + ` shouts: (.*)\n`)
	ShoutIt       = mustCompile(`\n--> ` + handle + titlesX + ` ?(.*)\n`)
	ChessShout    = mustCompile(`\n` + handle + titlesX + ` c-shouts: (.*)\n`)
	Announcement  = mustCompile(`\n\n +\*\*ANNOUNCEMENT\**\** from ` + handle + `: (.*)\n\n`)
	KibitzWhisper = mustCompile(`\n` + handle + titlesX + ratingC + `\[(\d+)\] (kibitzes|whispers): (.*)\n`)
)

// KibitzVerb is the verb captured by KibitzWhisper for a kibitz.
const KibitzVerb = "kibitzes"

// Seeks.
var (
	SeekInfoSet      = mustCompile(`seekinfo set\.\n<sc>\n((?:.*\n)*)`)
	SeekInfoSetSeek  = mustCompile(seekFields)
	SeekInfoSetError = mustCompile(`seekinfo set\.\n`)
	SeekInfoSeek     = mustCompile(`\n` + seekFields)
	SeekInfoRemove   = mustCompile(`\n<sr> ([\d ]+)\n`)
	SeekInfoUnset    = mustCompile(`seekinfo unset\.\n`)
)

// Pending offers and match offers.
var (
	Pending = mustCompile(
		`(?:There are no offers pending to other players\.\n|` +
			`Offers to other players:\n\n` +
			`((?: *\d+: .*\n)+)\n` +
			`If you wish to withdraw any of these offers type "withdraw number"\.\n)` +
			`\n` +
			`(?:There are no offers pending from other players\.\n|` +
			`Offers from other players:\n\n` +
			`((?: *\d+: .*\n)+)\n` +
			`If you wish to accept any of these offers type "accept number"\.\n` +
			`If you wish to decline any of these offers type "decline number"\.\n)`)

	pendingOfferBody = ` (?:a (draw)|to (abort|adjourn) the game|to takeback the last (\d+) half move\(s\)|a challenge: ` + handleX + ` ` + ratingX + ` (?:\[(?:white|black)\] )?` + handleX + ` ` + ratingX + ` ((?:un)?rated) (\S+) (\d+) (\d+))\.\n`

	PendingOfferTo   = mustCompile(` *(\d+): You are offering ` + handle + pendingOfferBody)
	PendingOfferFrom = mustCompile(` *(\d+): ` + handle + ` is offering` + pendingOfferBody)

	DeclineMatch   = mustCompile(`You decline the match offer from ` + handle + `\.\n`)
	DeclinedMatch  = mustCompile(`\n` + handle + ` declines the match offer\.\n`)
	WithdrawMatch  = mustCompile(`You withdraw the match offer to ` + handle + `\.\n`)
	WithdrawnMatch = mustCompile(`\n` + handle + ` withdraws the match offer\.\n`)
	RemovedMatch   = mustCompile(`\n` + handle + `, who was challenging you, has joined a match with ` + handleX + `\.\nChallenge from ` + handleX + ` removed\.\n`)
)

// Game state.
var (
	GameInfoMove           = mustCompile(style12 + `((?:` + style12X + `)*)`)
	GameInfoMoveAdditional = mustCompile(style12)

	GameInfoAcceptDeclineMove = mustCompile(`((?:You (?:accept|decline) the (?:abort|adjourn|draw|switch|takeback) request from ` + handleX + `\.\n)+)` + style12)
	GameInfoIllegalMove       = mustCompile(`(Illegal move \(\S+\)\.(?: You must capture\.)?\n)` + style12)

	GameInfoEnd        = mustCompile(`\n` + gameEndC + optionalRatingAdjustment)
	GameInfoNoteEnd    = mustCompile(`\nGame \d+: (.*)\n\n` + gameEndC + optionalRatingAdjustment)
	GameInfoAbortedEnd = mustCompile(`(?:The game has been aborted|\nYour opponent has aborted the game) on move one\.\n\n` + gameEndC)

	GameInfoCreating = mustCompile(
		`((?:You have an adjourned game with ` + handleX + `; issuing a continuation\.\n)?` +
			`(?:Your challenge intercepts ` + handleX + `'s challenge\.\n|` +
			`\n` + handleX + `'s challenge intercepts your challenge\.\n|` +
			`You accept the match offer from ` + handleX + `\.\n|` +
			`\n` + handleX + ` accepts the match offer\.\n|` +
			`Your getgame qualifies for ` + handleX + `'s seek\.\n|` +
			`\nYour getgame intercepts ` + handleX + `'s seek\.\nTurning off getgame mode\.\n|` +
			`\n` + handleX + ` accepts your seek\.\n|` +
			`(?:Your seek matches one already posted by ` + handleX + `\.\n` +
			`Issuing match request since the seek was set to manual\.\n` +
			`(?:Issuing: ` + handleX + ` ` + ratingX + ` ` + handleX + ` ` + ratingX + ` (?:un)?rated \S+ \d+ \d+\.|)\n` +
			`(?:Your \w+ rating will change: .*\n` +
			`Your new RD will be [\d.]+\n)?\n)*` +
			`Your seek qualifies for ` + handleX + `'s getgame\.\n|` +
			`\nYour seek intercepts ` + handleX + `'s getgame\.\n(?:Turning off getgame mode\.\n)?|` +
			`\n?Your seek matches one (?:already )?posted by ` + handleX + `\.\n)?` +
			`((?:` + removingObserved + `)*)` +
			`(?:Challenge to ` + handleX + ` withdrawn\.\n)*` +
			`(?:\nChallenge from ` + handleX + ` removed\.\n)*` +
			`\nCreating: ` + handleX + ` ` + ratingC + ` ` + handleX + ` ` + ratingC + ` (?:un)?rated \S+ \d+ \d+(?: \(adjourned\))?\n` +
			`\{Game \d+ \(` + handleX + ` vs\. ` + handleX + `\) (?:Creating|Continuing) (?:un)?rated \S+ match\.\}\n)` +
			style12 + `((?:\nGame \d+: .*\n)?)`)

	GameInfoObserving = mustCompile(
		`((?:\n` + handleX + `, whom you are following, has started (?:a game with ` + handleX + `|examining a game)\.\n|\nAn observable star game has started\.\n)?` +
			`\n{0,2}You are now observing game \d+\.\n` +
			`Game \d+: ` + handleX + ` ` + ratingC + ` ` + handleX + ` ` + ratingC + ` (?:un)?rated \S+ \d+ \d+\n)` + style12)

	GameInfoFollowing = mustCompile(
		`((?:(?:You will no longer be following (?:strongest player's|` + handleX + `'s) games\.\n)?You will now be following (?:strongest players'|` + handleX + `'s) games\.\n|` +
			`\n?((?:` + removingObserved + `)+))` +
			`You are now observing game \d+\.\n` +
			`Game \d+: ` + handleX + ` ` + ratingC + ` ` + handleX + ` ` + ratingC + ` (?:un)?rated \S+ \d+ \d+\n)` + style12)

	GameInfoExamining = mustCompile(`(Starting a game in examine \(scratch\) mode\.\n)` + style12)

	GameInfoRemovingObserved       = mustCompile(`(\n?(?:` + removingObserved + `)+)(?:\n<sr> ([\d ]+)\n)?`)
	GameInfoAcceptRemovingObserved = mustCompile(`((?:You accept the match offer from ` + handleX + `\.\n|\n` + handleX + ` accepts the match offer\.\n)(?:` + removingObserved + `)*)(?:\n<sr> ([\d ]+)\n)?`)
	GameInfoRemovingExamined       = mustCompile(`\n?You are no longer examining game (\d+)\.\n`)
	GameInfoMexamined              = mustCompile(`(Removing game \d+ from observation list\.\n\n` + handleX + ` has made you an examiner of game \d+\.\n)` + style12)

	GameInfoNote          = mustCompile(`\nGame (\d+): (.*)\n`)
	GameInfoNoteMove      = mustCompile(`(\n?Game \d+: (.*)\n)` + style12)
	GameInfoNoteMoveNote  = mustCompile(`(\n?Game \d+: (.*)\n)` + style12 + `(\nGame \d+: (.*)\n)`)
	GameInfoNoteResult    = mustCompile(`^(.*) ` + resultC + `$`)
	GameInfoMoveNote      = mustCompile(`\n?` + style12 + `(\nGame \d+: (.*)\n(?:\nGame \d+: (.*)\n)?)`)
	GameInfoMoretimeMove  = mustCompile(`(\d+ seconds were added to your opponents clock\n)` + style12)
	GameInfoMoveEnd       = mustCompile(style12 + `(\n` + gameEndX + optionalRatingAdjustment + `)`)
	GameInfoEndMove       = mustCompile(`(\n` + gameEndC + optionalRatingAdjustment + `)` + style12)
	GameInfoAutoflagMove  = mustCompile(`((?:\nChecking if really out of time\.\n)?\nAuto-flagging\.\n)` + style12)
	GameInfoDrawOffer     = mustCompile(`\n` + handle + ` offers you a draw\.\n`)
	GameInfoAbortRequest  = mustCompile(`\n` + handle + ` would like to abort the game; type "abort" to accept\.\n`)
	GameID                = mustCompile(`\d+`)
)

// Lists and lookups.
var (
	ListInfoShow      = mustCompile(`-- (\S+) list: \d+ \S+ --\n([\w \n]+)`)
	ListInfoAdd       = mustCompile(`\[(\w+)\] added to your (\S+) list\.\n`)
	ListInfoSub       = mustCompile(`\[(\w+)\] removed from your (\S+) list\.\n`)
	ListInfoShowEntry = mustCompile(`\w+`)

	Variables = mustCompile(
		`Variable settings of ` + handle + `:\n` +
			`\n` +
			`(?:\w+=\S+\s+)*` +
			`(?:` + handleX + ` is in silence mode\.\n+)?` +
			`(?:Prompt: .*\n)?` +
			`(?:Interface: "(.*)"\n)?` +
			`(?:Bughouse partner: .*\n)?` +
			`(?:Following: .*\n)?` +
			`(?:\n f1: (.*)\n` +
			`(?: f2: (.*)\n` +
			`(?: f3: (.*)\n` +
			`(?: f4: (.*)\n` +
			`(?: f5: (.*)\n` +
			`(?: f6: (.*)\n` +
			`(?: f7: (.*)\n` +
			`(?: f8: (.*)\n` +
			`(?: f9: (.*)\n)?)?)?)?)?)?)?)?)?` +
			`(?:\nFormula: (.*)\n)?`)

	History      = mustCompile(`\nHistory for ` + handle + `:\n +Opponent +Type +ECO +End +Date\n((.*\n)*)`)
	HistoryEntry = mustCompile(` *(\d+): ([-=+]) +(\d+) +([WB]) +(\d+) +` + handle + ` +\[ ([bslwBzSLxun])([ru]) *(\d+) +(\d+)\] +(\S+) +(\S+) +(.*)\n`)

	Journal      = mustCompile(`\nJournal for ` + handle + `:\n +White +Rating +Black +Rating +Type +ECO +End +Result\n((.*\n)*)`)
	JournalEntry = mustCompile(`([%]\d{2}): (\S+) +(\d+) +(\S+) +(\d+) +\[ ([bslwBzSLxun])([ru]) *(\d+) +(\d+)\] +(\S+) +(\S+) +` + resultC + ` *\n`)

	Adjourned      = mustCompile(`\nStored games for ` + handle + `:\n +C +Opponent +On +Type +Str +M +ECO +Date\n((.*\n)*)`)
	AdjournedEntry = mustCompile(` *\d+: ([WB]) ` + handle + ` +([NY]) \[([ p])([bslwBzSLxun])([ru]) *(\d+) +(\d+)\] +(\d+)-(\d+) +(\S+) +(\S+) +(.*)\n`)

	NoHistory      = mustCompile(handle + ` has no history games\.\n`)
	NoJournal      = mustCompile(handle + ` has no journal entries\.\n`)
	PrivateJournal = mustCompile(`That journal is private\.\n`)
	UnregJournal   = mustCompile(`Only registered players may keep a journal\.\n`)
	NoAdjourned    = mustCompile(handle + ` has no adjourned games\.\n`)

	InchannelNumber = mustCompile(`Channel (\d+)(?: "(\S+)")?: (.*)\n\d+ player(?: is|s are) in channel \d+\.\n`)
	InchannelUser   = mustCompile(`\{?` + handle + titlesX + `\}?`)

	HandlePrefix = mustCompile(`-- Matches: \d+ player\(s\) --\n((.*\n)*)`)

	WhoIbslwbslx     = mustCompile(handleX + `[ ^~:#.&][\da-fA-F]{2}\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E],[\da-fA-F]{2}\n`)
	WhoIbslwbslxLine = mustCompile(handle + `[ ^~:#.&][\da-f]{2}\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E]\d+[P E],[\da-fA-F]{2}\n`)

	CommandNotFound = mustCompile(`(\S+): Command not found\.\n`)
)

// Finger output. Capture group layout:
//
//	1 handle, 2 titles, 3 last disconnected, 4 on for, 5 idle, 6 silence,
//	7-9 playing game, 10-12 partner game, 13-15 examining game, 16 simul,
//	17 observing, 18 free-form status,
//	19-81 rating rows (seven groups per category, see FingerCategories),
//	82-91 notes 1 to 10.
var Finger = mustCompile(
	`Finger of ` + handle + titles + `:\n` +
		`\n` +
		`(?:Last disconnected: (.*)\n|` +
		handleX + ` has never connected\.\n|` +
		`On for: (.*?) +Idle: (.*)\n` +
		`(?:` + handleX + ` is in (silence) mode\.\n)?` +
		`(?:` + handleX + ` is watching for .*\.\n)?` +
		`(?:\(playing game (\d+): ` + handle + ` vs\. ` + handle + `\)\n)?` +
		`(?:\(partner is playing game (\d+): ` + handle + ` vs\. ` + handle + `\)\n)?` +
		`(?:\(examining game (\d+): ` + handle + ` vs\. ` + handle + `\)\n)?` +
		`(?:\(` + handleX + ` is holding a (simul)\.\)\n)?` +
		`(?:\(` + handleX + ` is observing game\(s\) (.*)\)\n)?` +
		`(?:\(` + handleX + ` (.*)\)\n)?)` +
		`\n` +
		`(?:` + handleX + ` has not played any rated games\.\n|` +
		` *rating *RD *win *loss *draw *total *best\n` +
		fingerRatingRow("Blitz") +
		fingerRatingRow("Standard") +
		fingerRatingRow("Lightning") +
		fingerRatingRow("Wild") +
		fingerRatingRow("Bughouse") +
		fingerRatingRow("Crazyhouse") +
		fingerRatingRow("Suicide") +
		fingerRatingRow("Losers") +
		fingerRatingRow("Atomic") +
		`)?\n+` +
		`(?:Admin Level: .*\n+)?` +
		`(?:Email *: .*\n+)?` +
		`(?:Total time online: .*\n+)?` +
		`(?:[%] of life online: *[\d.]+ *\(since .*\)\n+)?` +
		`(?:Timeseal [\d ] : (?:On|Off)\n+)?` +
		`(?: 1: (.*)\n` +
		`(?: 2: (.*)\n` +
		`(?: 3: (.*)\n` +
		`(?: 4: (.*)\n` +
		`(?: 5: (.*)\n` +
		`(?: 6: (.*)\n` +
		`(?: 7: (.*)\n` +
		`(?: 8: (.*)\n` +
		`(?: 9: (.*)\n` +
		`(?:10: (.*)\n)?)?)?)?)?)?)?)?)?)?`)

// FingerCategories lists the rating rows of Finger in capture order.
var FingerCategories = []string{"Blitz", "Standard", "Lightning", "Wild", "Bughouse", "Crazyhouse", "Suicide", "Losers", "Atomic"}

const (
	FingerFirstRatingGroup = 19
	FingerRatingGroupWidth = 7
	FingerFirstNoteGroup   = 82
	FingerNoteCount        = 10
)

func fingerRatingRow(name string) string {
	return `(?:` + name + ` +([-\d]+) +([\d.]+) +(\d+) +(\d+) +(\d+) +(\d+)(?: +(\d+) +\(.*\))?\n)?`
}

// Diagnostics.
var (
	CantPlayVariantsUntimed       = mustCompile(`You can't play chess variants untimed\.\n`)
	TimeControlsTooLarge          = mustCompile(`The time controls are too large\.\n`)
	AlreadyHaveSameSeek           = mustCompile(`You already have an active seek with the same parameters\.\n`)
	CannotChallengeWhileExamining = mustCompile(`You cannot challenge while you are examining a game\.\n`)
	CannotChallengeWhilePlaying   = mustCompile(`You cannot challenge while you are playing a game\.\n`)
	CanHave3Seeks                 = mustCompile(`You can only have 3 active seeks\.\n`)
	SeekNotAvailable              = mustCompile(`That seek is not available\.\n`)
	NotLoggedIn                   = mustCompile(handle + ` is not logged in\.\n`)
)

// News and messages.
var (
	MotdExtended = mustCompile(
		`(?:\nThere are no new news items\.\n|` +
			`\nIndex of new news items:\n` +
			`(?P<news>(?:\d+ .*\n)+)` +
			`\("news <n>" will display item number 'n'\)\n)` +
			newsSection("anews") +
			newsSection("tnews") +
			newsSection("snews") +
			`\n\nYou have (?P<all>\d+) messages? \((?P<unread>\d+) unread\)\.\n` +
			`Use "messages u" to view unread messages and "clearmessages \*" to clear all\.\n` +
			`(?:\nYour message file is full, (?P<max>\d+) messages is the maximum number allowed\.\n` +
			`You will not be able to receive any more messages until you remove some\.\n)?` +
			`(?:\nPresent company includes: (?P<present>[A-Za-z ]+)\.\n)?` +
			`(?:\nYour arrival was noted by: (?P<noted>[A-Za-z ]+)\.\n)?` +
			`(?:\nYou have (?P<adjourned>\d+) adjourned games?\.\n` +
			`(?:\d+ players?, who (?:has|have) an adjourned game with you, (?:is|are) online:\n` +
			`(?P<adjournedOnline>[A-Za-z ]+)\n)?)?$`)

	News                  = mustCompile(`Index of (?:the last few news items|news items \d+-\d+):\n *\d+ \(`)
	NewsItem              = mustCompile(` *(\d+) \((.*?)\) (.*)\n`)
	NewsDetails           = mustCompile(` *(\d+) \((.*?)\) (.*)\n\n(.*(?:\n\\   .*)*)\n\nPosted by ` + handle + `(?: \(Expires: .*\))?\.\n`)
	NewsDetailsSeparator  = mustCompile(`\n\\   `)
	Messages              = mustCompile(`(?:Messages|Unread messages):\n\d+\. `)
	MessageItem           = mustCompile(`(\d+)\. ` + handle + ` at (.*?): (.*)\n`)
	MoveList              = mustCompile(`\nMovelist for game (\d+):\n\n` + handle + ` \((UNR|\d+)\) vs\. ` + handle + ` \((UNR|\d+)\) --- .*\n` + `(Rated|Unrated) (\S+) match, initial time: (\d+) minutes, increment: (\d+) seconds\.\n\n` + `(?:<12> (.*)\n\n)?` + `Move  ` + handleX + ` +` + handleX + `\n` + `----  ---------------------   ---------------------\n` + `((?: *\d+.*\n)*)` + ` *\{(.*)\} ` + resultC + `\n\n`)
)

func newsSection(kind string) string {
	return `(?:\nThere are no new ` + kind + ` items\.\n|` +
		`\nIndex of new ` + kind + ` items:\n` +
		`(?P<` + kind + `>(?:\d+ .*\n)+)` +
		`\("` + kind + ` <n>" will display item number 'n'\)\n)?`
}

package model

import "github.com/park285/cheese-fics/internal/fics/grammar"

// Rule order decides which reading wins on ambiguous output. Richer shapes
// come before the bare shapes they contain.
var beforeFallback = []rule{
	continuationRule("multiple-accepts", grammar.HackMultipleAccepts),
	continuationRule("posted-manual-seek", grammar.HackPostedManualSeek),

	newRule("move", modeFull, grammar.GameInfoMove, (*Model).onMove),
	newRule("accept-decline-move", modeFull, grammar.GameInfoAcceptDeclineMove, boardAt(2), 1),
	newRule("illegal-move", modeFull, grammar.GameInfoIllegalMove, (*Model).onIllegalMove, 1),
	newRule("creating", modeFull, grammar.GameInfoCreating, (*Model).onCreating, 1, 6),
	newRule("observing", modeFull, grammar.GameInfoObserving, (*Model).onObserving, 1),
	newRule("following", modeFull, grammar.GameInfoFollowing, (*Model).onFollowing, 1),
	newRule("examining", modeFull, grammar.GameInfoExamining, (*Model).onExamining, 1),
	newRule("note-move", modeFull, grammar.GameInfoNoteMove, (*Model).onNoteMove, 1),
	newRule("note-move-note", modeFull, grammar.GameInfoNoteMoveNote, (*Model).onNoteMoveNote, 1, 4),
	newRule("move-note", modeFull, grammar.GameInfoMoveNote, (*Model).onMoveNote, 2),
	newRule("moretime-move", modeFull, grammar.GameInfoMoretimeMove, boardAt(2), 1),
	newRule("move-end", modeFull, grammar.GameInfoMoveEnd, (*Model).onMoveEnd, 2),
	newRule("end-move", modeFull, grammar.GameInfoEndMove, (*Model).onEndMove, 1),
	newRule("autoflag-move", modeFull, grammar.GameInfoAutoflagMove, boardAt(2), 1),

	newRule("seekinfo-set", modeFull, grammar.SeekInfoSet, (*Model).onSeekInfoSet),
	newRule("seekinfo-set-error", modeFull, grammar.SeekInfoSetError, (*Model).onSeekInfoSetError),
	newRule("seekinfo-seek", modeFull, grammar.SeekInfoSeek, (*Model).onSeekInfoSeek),
	newRule("seekinfo-remove", modeFull, grammar.SeekInfoRemove, (*Model).onSeekInfoRemove),
	newRule("seekinfo-unset", modeFull, grammar.SeekInfoUnset, func(*Model, match) disposition { return silent }),

	newRule("pending", modeFull, grammar.Pending, (*Model).onPending),
	newRule("removing-observed", modeFull, grammar.GameInfoRemovingObserved, (*Model).onRemovingObserved, 1),
	newRule("accept-removing-observed", modeFull, grammar.GameInfoAcceptRemovingObserved, (*Model).onRemovingObserved, 1),
	newRule("command-not-found", modeFull, grammar.CommandNotFound, (*Model).onCommandNotFound),
	newRule("finger", modeFull, grammar.Finger, (*Model).onFinger),
	newRule("mexamined", modeFull, grammar.GameInfoMexamined, boardAt(2), 1),
}

// afterFallback rules run once the chunk has been echoed. Only their events
// matter.
var afterFallback = []rule{
	newRule("removing-examined", modeFull, grammar.GameInfoRemovingExamined, (*Model).onRemovingExamined),
	newRule("decline-match", modeFull, grammar.DeclineMatch, offerFrom),
	newRule("declined-match", modeFull, grammar.DeclinedMatch, offerTo),
	newRule("withdraw-match", modeFull, grammar.WithdrawMatch, offerTo),
	newRule("withdrawn-match", modeFull, grammar.WithdrawnMatch, offerFrom),
	newRule("removed-match", modeFull, grammar.RemovedMatch, offerFrom),
	newRule("note", modeFull, grammar.GameInfoNote, (*Model).onNote),
	newRule("end", modeFull, grammar.GameInfoEnd, endAt(1, 2, 3)),
	newRule("note-end", modeFull, grammar.GameInfoNoteEnd, (*Model).onNoteEnd),
	newRule("aborted-end", modeFull, grammar.GameInfoAbortedEnd, endAt(1, 2, 3)),
	newRule("draw-offer", modeFull, grammar.GameInfoDrawOffer, (*Model).onDrawOffer),
	newRule("abort-request", modeFull, grammar.GameInfoAbortRequest, (*Model).onAbortRequest),

	newRule("private-tell", modeFull, grammar.PrivateTell, (*Model).onPrivateTell),
	newRule("say", modeFull, grammar.Say, (*Model).onSay),
	newRule("partner-tell", modeFull, grammar.PartnerTell, (*Model).onPartnerTell),
	newRule("channel-tell", modeFull, grammar.ChannelTell, (*Model).onChannelTell),
	newRule("shout", modeFull, grammar.Shout, (*Model).onShout),
	newRule("shout-it", modeFull, grammar.ShoutIt, (*Model).onShoutIt),
	newRule("chess-shout", modeFull, grammar.ChessShout, (*Model).onChessShout),
	newRule("announcement", modeFull, grammar.Announcement, (*Model).onAnnouncement),
	newRule("kibitz-whisper", modeFull, grammar.KibitzWhisper, (*Model).onKibitzWhisper),

	newRule("list-show", modeFull, grammar.ListInfoShow, (*Model).onListShow),
	newRule("list-add", modeFull, grammar.ListInfoAdd, (*Model).onListAdd),
	newRule("list-sub", modeFull, grammar.ListInfoSub, (*Model).onListSub),

	newRule("variables", modeFull, grammar.Variables, (*Model).onVariables),
	newRule("history", modeFull, grammar.History, (*Model).onHistory),
	newRule("journal", modeFull, grammar.Journal, (*Model).onJournal),
	newRule("adjourned", modeFull, grammar.Adjourned, (*Model).onAdjourned),
	newRule("no-history", modeFull, grammar.NoHistory, (*Model).onNoHistory),
	newRule("no-journal", modeFull, grammar.NoJournal, (*Model).onNoJournal),
	newRule("private-journal", modeFull, grammar.PrivateJournal, notify(Listener.OnPrivateJournal)),
	newRule("unreg-journal", modeFull, grammar.UnregJournal, notify(Listener.OnUnregJournal)),
	newRule("no-adjourned", modeFull, grammar.NoAdjourned, (*Model).onNoAdjourned),
	newRule("inchannel", modeFull, grammar.InchannelNumber, (*Model).onInchannel),
	newRule("handle-prefix", modeFull, grammar.HandlePrefix, (*Model).onHandlePrefix),
	newRule("who-ibslwbslx", modePrefix, grammar.WhoIbslwbslx, (*Model).onWho),

	newRule("variants-untimed", modeFull, grammar.CantPlayVariantsUntimed, notify(Listener.OnCantPlayVariantsUntimed)),
	newRule("time-controls-too-large", modeFull, grammar.TimeControlsTooLarge, notify(Listener.OnTimeControlsTooLarge)),
	newRule("same-seek", modeFull, grammar.AlreadyHaveSameSeek, notify(Listener.OnAlreadyHaveSameSeek)),
	newRule("challenge-while-examining", modeFull, grammar.CannotChallengeWhileExamining, notify(Listener.OnCannotChallengeWhileExamining)),
	newRule("challenge-while-playing", modeFull, grammar.CannotChallengeWhilePlaying, notify(Listener.OnCannotChallengeWhilePlaying)),
	newRule("seek-limit", modeFull, grammar.CanHave3Seeks, notify(Listener.OnCanHave3Seeks)),
	newRule("seek-not-available", modeFull, grammar.SeekNotAvailable, notify(Listener.OnSeekNotAvailable)),
	newRule("not-logged-in", modeFull, grammar.NotLoggedIn, (*Model).onNotLoggedIn),

	newRule("motd", modeSearch, grammar.MotdExtended, (*Model).onMotd),
	newRule("news", modePrefix, grammar.News, (*Model).onNews),
	newRule("news-details", modeFull, grammar.NewsDetails, (*Model).onNewsDetails),
	newRule("messages", modePrefix, grammar.Messages, (*Model).onMessages),
}

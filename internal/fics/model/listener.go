package model

import (
	"github.com/google/uuid"

	"github.com/park285/cheese-fics/internal/fics/record"
)

// Listener receives decoded events synchronously, in parse order.
// Embed NopListener to implement a subset.
type Listener interface {
	OnGameCreate(id uuid.UUID)
	OnGameUpdate(id uuid.UUID)
	OnIllegalMove()
	OnPendingInfo(info record.PendingInfo)
	OnDrawOffer(handle string)
	OnAbortRequest(handle string)
	OnSeekInfoSet(list record.SeekInfoList)
	OnSeekInfoSetError()
	OnReceivedSeek(seek record.SeekInfo)
	OnRemovedSeeks(list record.SeekInfoList)
	OnCommunication(c record.Communication)
	OnFinger(info record.FingerInfo)
	OnVariables(info record.VariablesInfo)
	OnHistory(info record.HistoryInfo)
	OnJournal(info record.JournalInfo)
	OnAdjourned(info record.AdjournedInfo)
	OnNoHistory(handle string)
	OnNoJournal(handle string)
	OnPrivateJournal()
	OnUnregJournal()
	OnNoAdjourned(handle string)
	OnInchannelInfo(info record.InchannelInfo)
	OnHandlePrefix(handles []string)
	OnWhoIbslwbslx(handles []string)
	OnRemoveMatchOfferFrom(handle string)
	OnRemoveMatchOfferTo(handle string)
	OnCantPlayVariantsUntimed()
	OnTimeControlsTooLarge()
	OnAlreadyHaveSameSeek()
	OnCannotChallengeWhileExamining()
	OnCannotChallengeWhilePlaying()
	OnCanHave3Seeks()
	OnSeekNotAvailable()
	OnNotLoggedIn(handle string)
	OnMotdExtended(data *record.WelcomeData)
	OnNews(items []record.NewsItem)
	OnNewsDetails(item record.NewsItem)
	OnMessages(messages []record.ReceivedMessage)
}

// NopListener ignores every event.
type NopListener struct{}

var _ Listener = NopListener{}

func (NopListener) OnGameCreate(id uuid.UUID)                    {}
func (NopListener) OnGameUpdate(id uuid.UUID)                    {}
func (NopListener) OnIllegalMove()                               {}
func (NopListener) OnPendingInfo(info record.PendingInfo)        {}
func (NopListener) OnDrawOffer(handle string)                    {}
func (NopListener) OnAbortRequest(handle string)                 {}
func (NopListener) OnSeekInfoSet(list record.SeekInfoList)       {}
func (NopListener) OnSeekInfoSetError()                          {}
func (NopListener) OnReceivedSeek(seek record.SeekInfo)          {}
func (NopListener) OnRemovedSeeks(list record.SeekInfoList)      {}
func (NopListener) OnCommunication(c record.Communication)       {}
func (NopListener) OnFinger(info record.FingerInfo)              {}
func (NopListener) OnVariables(info record.VariablesInfo)        {}
func (NopListener) OnHistory(info record.HistoryInfo)            {}
func (NopListener) OnJournal(info record.JournalInfo)            {}
func (NopListener) OnAdjourned(info record.AdjournedInfo)        {}
func (NopListener) OnNoHistory(handle string)                    {}
func (NopListener) OnNoJournal(handle string)                    {}
func (NopListener) OnPrivateJournal()                            {}
func (NopListener) OnUnregJournal()                              {}
func (NopListener) OnNoAdjourned(handle string)                  {}
func (NopListener) OnInchannelInfo(info record.InchannelInfo)    {}
func (NopListener) OnHandlePrefix(handles []string)              {}
func (NopListener) OnWhoIbslwbslx(handles []string)              {}
func (NopListener) OnRemoveMatchOfferFrom(handle string)         {}
func (NopListener) OnRemoveMatchOfferTo(handle string)           {}
func (NopListener) OnCantPlayVariantsUntimed()                   {}
func (NopListener) OnTimeControlsTooLarge()                      {}
func (NopListener) OnAlreadyHaveSameSeek()                       {}
func (NopListener) OnCannotChallengeWhileExamining()             {}
func (NopListener) OnCannotChallengeWhilePlaying()               {}
func (NopListener) OnCanHave3Seeks()                             {}
func (NopListener) OnSeekNotAvailable()                          {}
func (NopListener) OnNotLoggedIn(handle string)                  {}
func (NopListener) OnMotdExtended(data *record.WelcomeData)      {}
func (NopListener) OnNews(items []record.NewsItem)               {}
func (NopListener) OnNewsDetails(item record.NewsItem)           {}
func (NopListener) OnMessages(messages []record.ReceivedMessage) {}

// MultiListener fans each event out to its members in order.
type MultiListener []Listener

var _ Listener = MultiListener(nil)

func (ml MultiListener) OnGameCreate(id uuid.UUID) {
	for _, l := range ml {
		l.OnGameCreate(id)
	}
}

func (ml MultiListener) OnGameUpdate(id uuid.UUID) {
	for _, l := range ml {
		l.OnGameUpdate(id)
	}
}

func (ml MultiListener) OnIllegalMove() {
	for _, l := range ml {
		l.OnIllegalMove()
	}
}

func (ml MultiListener) OnPendingInfo(info record.PendingInfo) {
	for _, l := range ml {
		l.OnPendingInfo(info)
	}
}

func (ml MultiListener) OnDrawOffer(handle string) {
	for _, l := range ml {
		l.OnDrawOffer(handle)
	}
}

func (ml MultiListener) OnAbortRequest(handle string) {
	for _, l := range ml {
		l.OnAbortRequest(handle)
	}
}

func (ml MultiListener) OnSeekInfoSet(list record.SeekInfoList) {
	for _, l := range ml {
		l.OnSeekInfoSet(list)
	}
}

func (ml MultiListener) OnSeekInfoSetError() {
	for _, l := range ml {
		l.OnSeekInfoSetError()
	}
}

func (ml MultiListener) OnReceivedSeek(seek record.SeekInfo) {
	for _, l := range ml {
		l.OnReceivedSeek(seek)
	}
}

func (ml MultiListener) OnRemovedSeeks(list record.SeekInfoList) {
	for _, l := range ml {
		l.OnRemovedSeeks(list)
	}
}

func (ml MultiListener) OnCommunication(c record.Communication) {
	for _, l := range ml {
		l.OnCommunication(c)
	}
}

func (ml MultiListener) OnFinger(info record.FingerInfo) {
	for _, l := range ml {
		l.OnFinger(info)
	}
}

func (ml MultiListener) OnVariables(info record.VariablesInfo) {
	for _, l := range ml {
		l.OnVariables(info)
	}
}

func (ml MultiListener) OnHistory(info record.HistoryInfo) {
	for _, l := range ml {
		l.OnHistory(info)
	}
}

func (ml MultiListener) OnJournal(info record.JournalInfo) {
	for _, l := range ml {
		l.OnJournal(info)
	}
}

func (ml MultiListener) OnAdjourned(info record.AdjournedInfo) {
	for _, l := range ml {
		l.OnAdjourned(info)
	}
}

func (ml MultiListener) OnNoHistory(handle string) {
	for _, l := range ml {
		l.OnNoHistory(handle)
	}
}

func (ml MultiListener) OnNoJournal(handle string) {
	for _, l := range ml {
		l.OnNoJournal(handle)
	}
}

func (ml MultiListener) OnPrivateJournal() {
	for _, l := range ml {
		l.OnPrivateJournal()
	}
}

func (ml MultiListener) OnUnregJournal() {
	for _, l := range ml {
		l.OnUnregJournal()
	}
}

func (ml MultiListener) OnNoAdjourned(handle string) {
	for _, l := range ml {
		l.OnNoAdjourned(handle)
	}
}

func (ml MultiListener) OnInchannelInfo(info record.InchannelInfo) {
	for _, l := range ml {
		l.OnInchannelInfo(info)
	}
}

func (ml MultiListener) OnHandlePrefix(handles []string) {
	for _, l := range ml {
		l.OnHandlePrefix(handles)
	}
}

func (ml MultiListener) OnWhoIbslwbslx(handles []string) {
	for _, l := range ml {
		l.OnWhoIbslwbslx(handles)
	}
}

func (ml MultiListener) OnRemoveMatchOfferFrom(handle string) {
	for _, l := range ml {
		l.OnRemoveMatchOfferFrom(handle)
	}
}

func (ml MultiListener) OnRemoveMatchOfferTo(handle string) {
	for _, l := range ml {
		l.OnRemoveMatchOfferTo(handle)
	}
}

func (ml MultiListener) OnCantPlayVariantsUntimed() {
	for _, l := range ml {
		l.OnCantPlayVariantsUntimed()
	}
}

func (ml MultiListener) OnTimeControlsTooLarge() {
	for _, l := range ml {
		l.OnTimeControlsTooLarge()
	}
}

func (ml MultiListener) OnAlreadyHaveSameSeek() {
	for _, l := range ml {
		l.OnAlreadyHaveSameSeek()
	}
}

func (ml MultiListener) OnCannotChallengeWhileExamining() {
	for _, l := range ml {
		l.OnCannotChallengeWhileExamining()
	}
}

func (ml MultiListener) OnCannotChallengeWhilePlaying() {
	for _, l := range ml {
		l.OnCannotChallengeWhilePlaying()
	}
}

func (ml MultiListener) OnCanHave3Seeks() {
	for _, l := range ml {
		l.OnCanHave3Seeks()
	}
}

func (ml MultiListener) OnSeekNotAvailable() {
	for _, l := range ml {
		l.OnSeekNotAvailable()
	}
}

func (ml MultiListener) OnNotLoggedIn(handle string) {
	for _, l := range ml {
		l.OnNotLoggedIn(handle)
	}
}

func (ml MultiListener) OnMotdExtended(data *record.WelcomeData) {
	for _, l := range ml {
		l.OnMotdExtended(data)
	}
}

func (ml MultiListener) OnNews(items []record.NewsItem) {
	for _, l := range ml {
		l.OnNews(items)
	}
}

func (ml MultiListener) OnNewsDetails(item record.NewsItem) {
	for _, l := range ml {
		l.OnNewsDetails(item)
	}
}

func (ml MultiListener) OnMessages(messages []record.ReceivedMessage) {
	for _, l := range ml {
		l.OnMessages(messages)
	}
}

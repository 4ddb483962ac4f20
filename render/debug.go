package render

import (
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

func logger(entry *logrus.Entry) *logrus.Entry {
	if entry == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return entry
}

// debugMessengerOptions is chained into instance creation and reused for the
// messenger itself, so instance creation and destruction are reported too.
// Errors and warnings are always captured; info and verbose messages only
// when log is at debug level or lower.
func debugMessengerOptions(log *logrus.Entry) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: messageSeverity(log),
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    debugCallback(log),
	}
}

func messageSeverity(log *logrus.Entry) ext_debug_utils.DebugUtilsMessageSeverityFlags {
	severity := ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning
	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		severity |= ext_debug_utils.SeverityInfo | ext_debug_utils.SeverityVerbose
	}

	return severity
}

func debugCallback(log *logrus.Entry) func(ext_debug_utils.DebugUtilsMessageTypeFlags, ext_debug_utils.DebugUtilsMessageSeverityFlags, *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	return func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
		log.WithField("type", msgType).Log(severityLevel(severity), data.Message)
		return false
	}
}

func severityLevel(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) logrus.Level {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return logrus.ErrorLevel
	case severity&ext_debug_utils.SeverityWarning != 0:
		return logrus.WarnLevel
	case severity&ext_debug_utils.SeverityInfo != 0:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

package settings

// Android setting keys.
const (
	AndroidRescheduleOnRestart = "UnityNotificationAndroidRescheduleOnDeviceRestart"
	AndroidExactScheduling     = "UnityNotificationAndroidScheduleExactAlarms"
	AndroidCustomActivity      = "UnityNotificationAndroidCustomActivityString"

	DefaultCustomActivity = "com.unity3d.player.UnityPlayerActivity"
)

// iOS setting keys. These are also the Info.plist keys the patcher writes.
const (
	IOSRequestAuthorizationOnLaunch   = "UnityNotificationRequestAuthorizationOnAppLaunch"
	IOSDefaultAuthorizationOptions    = "UnityNotificationDefaultAuthorizationOptions"
	IOSAddPushCapability              = "UnityAddRemoteNotificationCapability"
	IOSRequestRemoteOnLaunch          = "UnityNotificationRequestAuthorizationForRemoteNotificationsOnAppLaunch"
	IOSForegroundPresentationOptions  = "UnityRemoteNotificationForegroundPresentationOptions"
	IOSUseReleaseAPSEnvironment       = "UnityUseAPSReleaseEnvironment"
	IOSUseLocationNotificationTrigger = "UnityUseLocationNotificationTrigger"
)

// ExactSchedulingOption flags for AndroidExactScheduling.
const (
	ExactSchedulingEnabled                  = 1 << 0
	AddScheduleExactAlarmPermission         = 1 << 1
	AddUseExactAlarmPermission              = 1 << 2
	AddIgnoreBatteryOptimizationsPermission = 1 << 3
)

// AuthorizationOption flags for IOSDefaultAuthorizationOptions.
const (
	AuthorizationBadge   = 1 << 0
	AuthorizationSound   = 1 << 1
	AuthorizationAlert   = 1 << 2
	AuthorizationCarPlay = 1 << 3
)

// PresentationOption flags for IOSForegroundPresentationOptions.
const (
	PresentationBadge = 1 << 0
	PresentationSound = 1 << 1
	PresentationAlert = 1 << 2
)

func setting(key, label, tooltip string, def Value) Setting {
	return Setting{Key: key, Label: label, Tooltip: tooltip, Default: def, Value: def}
}

// Definitions returns the setting tree for p with hardcoded labels,
// tooltips and defaults.
func Definitions(p Platform) []Node {
	switch p {
	case Android:
		return androidDefinitions()
	case IOS:
		return iosDefinitions()
	default:
		return nil
	}
}

func androidDefinitions() []Node {
	return []Node{
		{Setting: setting(
			AndroidRescheduleOnRestart,
			"Reschedule on Device Restart",
			"Enable this to automatically reschedule all non-expired notifications after device restart. By default all scheduled notifications are removed after restarting.",
			Bool(false))},
		{Setting: setting(
			AndroidExactScheduling,
			"Schedule at exact time",
			"Whether notifications should appear at exact time or approximate.",
			Int(0))},
		{Setting: setting(
			AndroidCustomActivity,
			"Custom Activity Name",
			"The full class name of the activity which will be assigned to the notification.",
			String(DefaultCustomActivity))},
	}
}

func iosDefinitions() []Node {
	return []Node{
		{
			Setting: setting(
				IOSRequestAuthorizationOnLaunch,
				"Request Authorization on App Launch",
				"Request permission to display notifications as soon as the app launches.",
				Bool(true)),
			Dependencies: []Node{
				{Setting: setting(
					IOSDefaultAuthorizationOptions,
					"Default Notification Authorization Options",
					"Interactions the app requests permission for when authorization is requested on launch.",
					Int(AuthorizationBadge|AuthorizationSound|AuthorizationAlert))},
			},
		},
		{
			Setting: setting(
				IOSAddPushCapability,
				"Enable Push Notifications",
				"Add the push notification capability, the remote-notification background mode and the aps-environment entitlement.",
				Bool(false)),
			Dependencies: []Node{
				{Setting: setting(
					IOSRequestRemoteOnLaunch,
					"Register for Push Notifications on App Launch",
					"Register for remote notifications and request a device token on launch.",
					Bool(false))},
				{Setting: setting(
					IOSForegroundPresentationOptions,
					"Remote Notification Foreground Presentation Options",
					"How a remote notification is presented when it arrives while the app is in the foreground.",
					Int(PresentationBadge|PresentationSound|PresentationAlert))},
				{Setting: setting(
					IOSUseReleaseAPSEnvironment,
					"Use Release Environment for APS",
					"Set aps-environment to production. Turn off to sign push with the development environment.",
					Bool(true))},
			},
		},
		{Setting: setting(
			IOSUseLocationNotificationTrigger,
			"Include CoreLocation Framework",
			"Link CoreLocation so notifications can use location triggers.",
			Bool(false))},
	}
}

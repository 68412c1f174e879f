package systm

// All GraphQL query/mutation documents and operation names live in this file.
// The upstream API is unversioned and has changed field names and ID formats
// between app generations, so the wire schema is isolated here: an upstream
// change should only ever require edits to this file and models.go.

const (
	opLoginUser            = "LoginUser"
	opImpersonate          = "Impersonate"
	opMostRecentTest       = "MostRecentTest"
	opGetUserPlansRange    = "GetUserPlansRange"
	opGetWorkoutCollection = "GetWorkoutCollection"
	opLibrary              = "Library"
	opAddAgenda            = "AddAgenda"
	opMoveAgenda           = "MoveAgenda"
	opDeleteAgenda         = "DeleteAgenda"
	opGetWorkoutActivities = "GetWorkoutActivities"
	opGetActivity          = "GetActivity"
)

const loginMutation = `
mutation LoginUser($username: String!, $password: String!, $appInformation: AppInformation!) {
  loginUser(username: $username, password: $password, appInformation: $appInformation) {
    status
    message
    token
    user {
      id
    }
  }
}
`

const impersonateMutation = `
mutation Impersonate($appInformation: AppInformation!, $sessionToken: String!) {
  impersonateUser(appInformation: $appInformation, sessionToken: $sessionToken) {
    status
    message
    user {
      profiles {
        riderProfile {
          nm
          ac
          map
          ftp
          lthr
          cadenceThreshold
        }
      }
    }
    token
  }
}
`

const mostRecentTestQuery = `
query MostRecentTest {
  mostRecentTest {
    status
    message
    fitnessTestRidden
    riderType {
      name
      description
      icon
    }
    riderWeakness {
      name
      description
      weaknessSummary
      weaknessDescription
      strengthName
      strengthDescription
      strengthSummary
    }
    power5s {
      status
      graphValue
      value
    }
    power1m {
      status
      graphValue
      value
    }
    power5m {
      status
      graphValue
      value
    }
    power20m {
      status
      graphValue
      value
    }
    lactateThresholdHeartRate
    startTime
    endTime
  }
}
`

const userPlansRangeQuery = `
query GetUserPlansRange(
  $startDate: Date,
  $endDate: Date,
  $queryParams: QueryParams,
  $timezone: TimeZone
) {
  userPlan(
    startDate: $startDate,
    endDate: $endDate,
    queryParams: $queryParams,
    timezone: $timezone
  ) {
    day
    plannedDate
    rank
    agendaId
    status
    type
    appliedTimeZone
    wahooWorkoutId
    completionData {
      name
      date
      activityId
      durationSeconds
      style
      deleted
    }
    prospects {
      type
      name
      compatibility
      description
      style
      intensity {
        master
        nm
        ac
        map
        ftp
      }
      trainerSetting {
        mode
        level
      }
      plannedDuration
      durationType
      metrics {
        ratings {
          nm
          ac
          map
          ftp
        }
      }
      contentId
      workoutId
      notes
      fourDPWorkoutGraph {
        time
        value
        type
      }
    }
    plan {
      id
      name
      color
      description
      category
      grouping
      level
      type
    }
    linkData {
      name
      date
      activityId
      durationSeconds
      style
      deleted
    }
  }
}
`

const workoutsQuery = `
query GetWorkoutCollection($ids: [ID], $queryParams: QueryParams) {
  workouts(ids: $ids, queryParams: $queryParams) {
    id
    name
    sport
    shortDescription
    details
    level
    durationSeconds
    equipment {
      name
      description
      thumbnail
    }
    metrics {
      intensityFactor
      tss
      ratings {
        nm
        ac
        map
        ftp
      }
    }
    graphTriggers {
      time
      value
      type
    }
  }
}
`

const libraryQuery = `
query Library($locale: Locale!, $queryParams: QueryParams, $appInformation: AppInformation!) {
  library(locale: $locale, queryParams: $queryParams, appInformation: $appInformation) {
    content {
      id
      name
      mediaType
      channel
      workoutType
      category
      level
      duration
      workoutId
      videoId
      bannerImage
      posterImage
      defaultImage
      intensity
      tags
      descriptions {
        title
        body
      }
      metrics {
        tss
        intensityFactor
        ratings {
          nm
          ac
          map
          ftp
        }
      }
    }
    sports {
      id
      workoutType
      name
      description
    }
    channels {
      id
      name
      description
    }
  }
}
`

const addAgendaMutation = `
mutation AddAgenda($contentId: ID!, $date: Date!, $timeZone: TimeZone!) {
  addAgenda(contentId: $contentId, date: $date, timeZone: $timeZone) {
    status
    message
    agendaId
  }
}
`

const moveAgendaMutation = `
mutation MoveAgenda($agendaId: ID!, $date: Date!, $timeZone: TimeZone!) {
  moveAgenda(agendaId: $agendaId, date: $date, timeZone: $timeZone) {
    status
  }
}
`

const deleteAgendaMutation = `
mutation DeleteAgenda($agendaId: ID!) {
  deleteAgenda(agendaId: $agendaId) {
    status
  }
}
`

const workoutActivitiesQuery = `
query GetWorkoutActivities($workoutIds: [ID]!, $pageInformation: PageInformation!) {
  getWorkoutActivities(workoutIds: $workoutIds, pageInformation: $pageInformation) {
    activities {
      id
      name
      completedDate
      durationSeconds
      distanceKm
      tss
      intensityFactor
      workoutId
      contentId
      testResults {
        power5s {
          status
          graphValue
          value
        }
        power1m {
          status
          graphValue
          value
        }
        power5m {
          status
          graphValue
          value
        }
        power20m {
          status
          graphValue
          value
        }
        lactateThresholdHeartRate
        riderType {
          name
          description
          icon
        }
      }
    }
    count
  }
}
`

const activityQuery = `
query GetActivity($activityId: ID!) {
  activity(id: $activityId) {
    id
    name
    completedDate
    durationSeconds
    distanceKm
    tss
    intensityFactor
    notes
    testResults {
      power5s {
        status
        graphValue
        value
      }
      power1m {
        status
        graphValue
        value
      }
      power5m {
        status
        graphValue
        value
      }
      power20m {
        status
        graphValue
        value
      }
      lactateThresholdHeartRate
      riderType {
        name
        description
        icon
      }
    }
    profile {
      nm
      ac
      map
      ftp
    }
    power
    cadence
    heartRate
    powerBests {
      duration
      value
    }
    analysis
  }
}
`

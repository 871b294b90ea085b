package sqlinline

const QFirmProfileGet = `--sql 7ce75203-b5c8-43ac-993e-b4a1b7dff36a
select user_id, facts_json, created_at, updated_at
from firm_profiles
where user_id = $1;
`

const QFirmProfileUpsert = `--sql fa3d2927-0948-408a-852d-860a766bc44c
insert into firm_profiles (user_id, facts_json)
values ($1, $2)
on conflict (user_id) do update
set facts_json = excluded.facts_json, updated_at = now();
`
